// Package riff implements the RIFF chunk grammar shared by WebP and WAV:
// a 4-byte ASCII type, a 4-byte little-endian size, the payload, and a zero
// padding byte after odd-sized payloads. The padding byte is not part of the
// declared size and is regenerated on write, never copied.
package riff

import (
	"encoding/binary"

	"github.com/metastrip/metastrip/internal/container"
)

// HeaderSize is the fixed RIFF container header: "RIFF" + u32 size + fourcc.
const HeaderSize = 12

// chunkHeaderSize is the per-chunk type + size prefix.
const chunkHeaderSize = 8

// CheckHeader verifies the 12-byte RIFF header and its fourcc (e.g. "WEBP",
// "WAVE") for format f.
func CheckHeader(f container.Format, input []byte, fourcc string) error {
	if len(input) < HeaderSize {
		return container.NewDecodeError(f, 0, "input shorter than RIFF header")
	}
	if string(input[0:4]) != "RIFF" {
		return container.NewDecodeError(f, 0, "missing RIFF signature")
	}
	if string(input[8:12]) != fourcc {
		return container.NewDecodeError(f, 8, "missing "+fourcc+" fourcc")
	}
	return nil
}

// WalkChunks scans the chunk sequence in data (the bytes after the 12-byte
// header). base is the offset of data within the whole file, used only for
// error reporting.
//
// When clampFinal is true a final chunk whose declared size extends past the
// end of data is clamped to the bytes actually available and ends the walk;
// when false the overrun is a DecodeError.
func WalkChunks(f container.Format, data []byte, base int, clampFinal bool) ([]container.Record, error) {
	var records []container.Record
	pos := 0

	for pos+chunkHeaderSize <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))

		start := pos + chunkHeaderSize
		end := start + size
		if end > len(data) {
			if !clampFinal {
				return nil, container.NewDecodeError(f, base+pos, "chunk "+id+" overruns input")
			}
			records = append(records, container.Record{ID: id, Payload: data[start:]})
			return records, nil
		}

		records = append(records, container.Record{ID: id, Payload: data[start:end]})

		// Word alignment: odd payloads are followed by one pad byte.
		pos = end
		if size%2 != 0 {
			pos++
		}
	}
	return records, nil
}

// WriteContainer emits a RIFF container with the given fourcc and chunks,
// regenerating padding and patching the total-size field. The RIFF size
// counts everything after the first 8 bytes, so it always equals
// len(output) - 8.
func WriteContainer(fourcc string, keep []container.Record) []byte {
	n := HeaderSize
	for _, r := range keep {
		n += chunkHeaderSize + len(r.Payload)
		if len(r.Payload)%2 != 0 {
			n++
		}
	}

	out := make([]byte, 0, n)
	out = append(out, "RIFF"...)
	out = append(out, 0, 0, 0, 0) // size placeholder
	out = append(out, fourcc...)

	for _, r := range keep {
		out = append(out, r.ID...)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(r.Payload)))
		out = append(out, r.Payload...)
		if len(r.Payload)%2 != 0 {
			out = append(out, 0)
		}
	}

	binary.LittleEndian.PutUint32(out[4:8], uint32(len(out)-8))
	return out
}
