package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/metastrip/metastrip/internal/container"
)

var chunkNames = map[string]string{
	"fmt ": "Format",
	"data": "Audio Data",
	"fact": "Fact (sample count)",
	"LIST": "List Container",
	"cue ": "Cue Points",
	"smpl": "Sampler Info",
	"inst": "Instrument",
	"bext": "Broadcast Extension (BWF)",
	"iXML": "iXML Metadata",
	"JUNK": "Padding/Junk",
	"junk": "Padding/Junk",
	"PAD ": "Padding",
	"pad ": "Padding",
	"PEAK": "Peak Envelope",
	"DISP": "Display/Title",
	"acid": "Acid Loop Info",
	"cart": "Cart Chunk (AES46)",
	"ID3 ": "ID3 Tag",
}

var infoNames = map[string]string{
	"IART": "Artist",
	"INAM": "Title",
	"IPRD": "Product/Album",
	"ICMT": "Comment",
	"ICRD": "Creation Date",
	"IGNR": "Genre",
	"ISFT": "Software",
	"ITRK": "Track Number",
	"ICOP": "Copyright",
	"IENG": "Engineer",
	"ITCH": "Technician",
	"ISRC": "Source",
}

// Inspect writes a human-readable chunk report for a WAV buffer.
func Inspect(w io.Writer, input []byte) error {
	eng := New()
	records, err := eng.Walk(input)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "WAV, %s (%d bytes)\n", humanize.Bytes(uint64(len(input))), len(input))
	writeFormatLine(w, records)
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Chunk", "Class", "Size", "Description", "Content")
	strippable := 0
	for _, r := range records {
		if eng.Classify(r.ID) != container.ClassEssential {
			strippable += len(r.Payload) + 8
		}
		name := chunkNames[r.ID]
		if name == "" {
			name = "Unknown"
		}
		table.Append([]string{
			r.ID,
			eng.Classify(r.ID).String(),
			fmt.Sprintf("%d", len(r.Payload)),
			name,
			chunkContent(r),
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d chunks, %d bytes strippable metadata\n", len(records), strippable)
	return nil
}

// writeFormatLine decodes the fmt chunk and derives the duration from the
// data chunk length.
func writeFormatLine(w io.Writer, records []container.Record) {
	var fmtChunk, dataChunk []byte
	for _, r := range records {
		switch r.ID {
		case "fmt ":
			if fmtChunk == nil {
				fmtChunk = r.Payload
			}
		case "data":
			if dataChunk == nil {
				dataChunk = r.Payload
			}
		}
	}
	if len(fmtChunk) < 16 {
		return
	}

	audioFormat := binary.LittleEndian.Uint16(fmtChunk[0:2])
	channels := binary.LittleEndian.Uint16(fmtChunk[2:4])
	sampleRate := binary.LittleEndian.Uint32(fmtChunk[4:8])
	byteRate := binary.LittleEndian.Uint32(fmtChunk[8:12])
	bitsPerSample := binary.LittleEndian.Uint16(fmtChunk[14:16])

	fmt.Fprintf(w, "%s, %d ch, %d Hz, %d bit, %d kbps\n",
		formatName(audioFormat), channels, sampleRate, bitsPerSample, byteRate*8/1000)

	if dataChunk != nil && byteRate > 0 {
		secs := float64(len(dataChunk)) / float64(byteRate)
		fmt.Fprintf(w, "duration %d:%05.2f, audio data %s\n",
			int(secs)/60, secsRemainder(secs), humanize.Bytes(uint64(len(dataChunk))))
	}
}

func secsRemainder(secs float64) float64 {
	return secs - float64(int(secs)/60*60)
}

func formatName(code uint16) string {
	switch code {
	case 1:
		return "PCM (uncompressed)"
	case 3:
		return "IEEE Float"
	case 6:
		return "A-law"
	case 7:
		return "mu-law"
	case 0xFFFE:
		return "Extensible"
	}
	return fmt.Sprintf("format %d", code)
}

func chunkContent(r container.Record) string {
	if r.ID != "LIST" || len(r.Payload) < 4 {
		return ""
	}
	listType := string(r.Payload[0:4])
	if listType != "INFO" {
		return "list type " + listType
	}

	var parts []string
	d := r.Payload[4:]
	pos := 0
	for pos+8 <= len(d) {
		id := string(d[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(d[pos+4 : pos+8]))
		end := pos + 8 + size
		if end > len(d) {
			end = len(d)
		}
		value := strings.TrimRight(string(d[pos+8:end]), "\x00")
		name := infoNames[id]
		if name == "" {
			name = id
		}
		if value != "" {
			parts = append(parts, name+": "+value)
		}
		pos += 8 + size
		if pos%2 != 0 {
			pos++
		}
	}
	return strings.Join(parts, "; ")
}
