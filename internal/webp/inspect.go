package webp

import (
	"encoding/binary"
	"fmt"
	"io"

	humanize "github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/metastrip/metastrip/internal/container"
)

var chunkNames = map[string]string{
	"VP8 ": "Lossy VP8 bitstream",
	"VP8L": "Lossless VP8L bitstream",
	"VP8X": "Extended file format",
	"ANIM": "Animation parameters",
	"ANMF": "Animation frame",
	"ALPH": "Alpha channel",
	"ICCP": "ICC Color Profile",
	"EXIF": "EXIF metadata",
	"XMP ": "XMP metadata",
}

// Inspect writes a human-readable chunk report for a WebP buffer.
func Inspect(w io.Writer, input []byte) error {
	eng := New()
	records, err := eng.Walk(input)
	if err != nil {
		return err
	}

	riffSize := binary.LittleEndian.Uint32(input[4:8])
	fmt.Fprintf(w, "WebP, %s (%d bytes), RIFF container size %d\n\n",
		humanize.Bytes(uint64(len(input))), len(input), riffSize)

	table := tablewriter.NewWriter(w)
	table.Header("Chunk", "Class", "Size", "Description", "Content")
	for _, r := range records {
		name := chunkNames[r.ID]
		if name == "" {
			name = "Unknown chunk"
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

	fmt.Fprintf(w, "\n%d chunks\n", len(records))
	return nil
}

func chunkContent(r container.Record) string {
	d := r.Payload
	switch r.ID {
	case "VP8X":
		if len(d) >= 10 {
			flags := d[0]
			width := uint32(d[4]) | uint32(d[5])<<8 | uint32(d[6])<<16
			height := uint32(d[7]) | uint32(d[8])<<8 | uint32(d[9])<<16
			return fmt.Sprintf("canvas %dx%d, icc=%t alpha=%t exif=%t xmp=%t anim=%t",
				width+1, height+1,
				flags&0x20 != 0, flags&0x10 != 0, flags&0x08 != 0, flags&0x04 != 0, flags&0x02 != 0)
		}
	case "VP8 ":
		// Key frames carry the 9D 01 2A start code followed by 14-bit
		// width and height.
		if len(d) >= 10 && d[3] == 0x9d && d[4] == 0x01 && d[5] == 0x2a {
			width := binary.LittleEndian.Uint16(d[6:8]) & 0x3fff
			height := binary.LittleEndian.Uint16(d[8:10]) & 0x3fff
			return fmt.Sprintf("%dx%d", width, height)
		}
	case "EXIF", "XMP ", "ICCP":
		return fmt.Sprintf("%d bytes of metadata", len(d))
	}
	return ""
}
