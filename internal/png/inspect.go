package png

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
	"IHDR": "Image Header",
	"PLTE": "Palette",
	"IDAT": "Image Data",
	"IEND": "Image End",
	"tRNS": "Transparency",
	"gAMA": "Gamma",
	"cHRM": "Chromaticity",
	"sRGB": "Standard RGB Color Space",
	"iCCP": "ICC Color Profile",
	"tEXt": "Textual Data",
	"zTXt": "Compressed Textual Data",
	"iTXt": "International Textual Data",
	"bKGD": "Background Color",
	"pHYs": "Physical Pixel Dimensions",
	"tIME": "Last Modification Time",
	"sBIT": "Significant Bits",
	"sPLT": "Suggested Palette",
	"hIST": "Histogram",
	"eXIf": "EXIF Data",
}

// Inspect writes a human-readable chunk report for a PNG buffer.
func Inspect(w io.Writer, input []byte) error {
	eng := New()
	records, err := eng.Walk(input)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "PNG, %s (%d bytes)\n", humanize.Bytes(uint64(len(input))), len(input))
	for _, r := range records {
		if r.ID == "IHDR" && len(r.Payload) >= 13 {
			width := binary.BigEndian.Uint32(r.Payload[0:4])
			height := binary.BigEndian.Uint32(r.Payload[4:8])
			fmt.Fprintf(w, "%d x %d pixels, bit depth %d, color type %d\n",
				width, height, r.Payload[8], r.Payload[9])
			break
		}
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Chunk", "Class", "Size", "Description", "Content")
	critical, ancillary := 0, 0
	for _, r := range records {
		if isCritical(r.ID) {
			critical++
		} else {
			ancillary++
		}
		name := chunkNames[r.ID]
		if name == "" {
			name = "Unknown/Custom Chunk"
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

	fmt.Fprintf(w, "\n%d chunks (%d critical, %d ancillary)\n", len(records), critical, ancillary)
	return nil
}

// chunkContent decodes a few well-known chunk payloads for display. This is
// diagnostic output, not part of the byte-exact contract.
func chunkContent(r container.Record) string {
	d := r.Payload
	switch r.ID {
	case "tEXt", "zTXt", "iTXt":
		i := strings.IndexByte(string(d), 0)
		if i < 0 {
			return ""
		}
		keyword := string(d[:i])
		if r.ID != "tEXt" {
			return keyword + ": <compressed or binary>"
		}
		value := string(d[i+1:])
		if len(value) > 60 {
			value = value[:60] + "..."
		}
		return keyword + ": " + value
	case "pHYs":
		if len(d) >= 9 {
			unit := "unit"
			if d[8] == 1 {
				unit = "meter"
			}
			return fmt.Sprintf("%dx%d pixels per %s",
				binary.BigEndian.Uint32(d[0:4]), binary.BigEndian.Uint32(d[4:8]), unit)
		}
	case "tIME":
		if len(d) >= 7 {
			return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d",
				binary.BigEndian.Uint16(d[0:2]), d[2], d[3], d[4], d[5], d[6])
		}
	case "gAMA":
		if len(d) >= 4 {
			return fmt.Sprintf("gamma %.5f", float64(binary.BigEndian.Uint32(d[0:4]))/100000.0)
		}
	}
	return ""
}
