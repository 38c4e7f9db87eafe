// Package id3 is the tag model underneath the MP3 engine. It owns the ID3
// wire formats: the synchsafe size codec, the ID3v2 header and ordered frame
// walk (v2.3 and v2.4), deterministic ID3v2.4 serialization, and the fixed
// 128-byte ID3v1 trailer. Which frames survive a strip is decided by the MP3
// engine, not here.
package id3

import (
	"encoding/binary"
	"strings"

	"github.com/metastrip/metastrip/internal/container"
)

// HeaderSize is the fixed ID3v2 tag header length.
const HeaderSize = 10

// V1Size is the fixed ID3v1 trailer length.
const V1Size = 128

// frameHeaderSize is the v2.3/v2.4 frame header length.
const frameHeaderSize = 10

// DecodeSynchsafe decodes a 4-byte synchsafe integer: only the low 7 bits
// of each byte are significant.
func DecodeSynchsafe(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// EncodeSynchsafe encodes v (< 2^28) as a 4-byte synchsafe integer.
func EncodeSynchsafe(v uint32) [4]byte {
	return [4]byte{
		byte(v >> 21 & 0x7F),
		byte(v >> 14 & 0x7F),
		byte(v >> 7 & 0x7F),
		byte(v & 0x7F),
	}
}

// DetectV2Size returns the total span of an ID3v2 tag at the start of input,
// header included, or 0 if no tag is present.
func DetectV2Size(input []byte) int {
	if len(input) < HeaderSize || string(input[0:3]) != "ID3" {
		return 0
	}
	return int(DecodeSynchsafe(input[6:10])) + HeaderSize
}

// HasV1 reports whether the last 128 bytes of input begin with "TAG".
func HasV1(input []byte) bool {
	return len(input) >= V1Size && string(input[len(input)-V1Size:len(input)-V1Size+3]) == "TAG"
}

// Frame is one ID3v2 frame: its 4-character ID and its verbatim body.
type Frame struct {
	ID   string
	Body []byte
}

// Tag is a parsed ID3v2 tag. Frames preserve container order.
type Tag struct {
	Version byte // major version: 3 or 4
	Flags   byte
	// Size is the declared tag size excluding the 10-byte header.
	Size   uint32
	Frames []Frame
}

// TotalSize is the full tag span including the header.
func (t *Tag) TotalSize() int { return int(t.Size) + HeaderSize }

// Parse reads the ID3v2 tag at the start of input. Frame bodies alias the
// input buffer. Only v2.3 and v2.4 are supported; both use 10-byte frame
// headers, with v2.4 switching the frame size field to synchsafe.
func Parse(input []byte) (*Tag, error) {
	if len(input) < HeaderSize || string(input[0:3]) != "ID3" {
		return nil, container.NewDecodeError(container.FormatMP3, 0, "missing ID3v2 header")
	}

	tag := &Tag{
		Version: input[3],
		Flags:   input[5],
		Size:    DecodeSynchsafe(input[6:10]),
	}
	if tag.Version != 3 && tag.Version != 4 {
		return nil, container.NewDecodeError(container.FormatMP3, 3, "unsupported ID3v2 version")
	}

	end := tag.TotalSize()
	if end > len(input) {
		return nil, container.NewDecodeError(container.FormatMP3, 6, "ID3v2 tag size overruns input")
	}

	pos := HeaderSize
	if tag.Flags&0x40 != 0 {
		pos += extendedHeaderSize(tag.Version, input[pos:end])
	}

	for pos+frameHeaderSize <= end {
		// Padding: a zero byte where a frame ID should be ends the frames.
		if input[pos] == 0 {
			break
		}
		id := string(input[pos : pos+4])
		if !validFrameID(id) {
			return nil, container.NewDecodeError(container.FormatMP3, pos, "invalid frame ID "+id)
		}

		var size int
		if tag.Version == 4 {
			size = int(DecodeSynchsafe(input[pos+4 : pos+8]))
		} else {
			size = int(binary.BigEndian.Uint32(input[pos+4 : pos+8]))
		}
		bodyStart := pos + frameHeaderSize
		bodyEnd := bodyStart + size
		if bodyEnd < bodyStart || bodyEnd > end {
			return nil, container.NewDecodeError(container.FormatMP3, pos, "frame "+id+" overruns tag")
		}

		tag.Frames = append(tag.Frames, Frame{ID: id, Body: input[bodyStart:bodyEnd]})
		pos = bodyEnd
	}
	return tag, nil
}

// Encode serializes frames as an ID3v2.4 tag: "ID3", version 4.0, no flags,
// synchsafe tag size, and per frame ID + synchsafe size + zeroed flags +
// verbatim body. Frame order is preserved, so output is deterministic.
func Encode(frames []Frame) []byte {
	size := 0
	for _, f := range frames {
		size += frameHeaderSize + len(f.Body)
	}

	out := make([]byte, 0, HeaderSize+size)
	out = append(out, "ID3"...)
	out = append(out, 4, 0, 0)
	ss := EncodeSynchsafe(uint32(size))
	out = append(out, ss[:]...)

	for _, f := range frames {
		out = append(out, f.ID...)
		fs := EncodeSynchsafe(uint32(len(f.Body)))
		out = append(out, fs[:]...)
		out = append(out, 0, 0)
		out = append(out, f.Body...)
	}
	return out
}

// extendedHeaderSize returns the bytes to skip when the extended header flag
// is set. v2.4 declares a synchsafe size that includes itself; v2.3 declares
// a big-endian size that excludes its own 4 size bytes.
func extendedHeaderSize(version byte, rest []byte) int {
	if len(rest) < 4 {
		return 0
	}
	if version == 4 {
		return int(DecodeSynchsafe(rest[0:4]))
	}
	return int(binary.BigEndian.Uint32(rest[0:4])) + 4
}

func validFrameID(id string) bool {
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return len(id) == 4
}

// V1Tag is the fixed-offset fixed-width ID3v1 trailer.
type V1Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Genre   byte
}

// ParseV1 reads the ID3v1 trailer from the last 128 bytes of input.
// Fields are trimmed of trailing NULs and spaces.
func ParseV1(input []byte) (V1Tag, bool) {
	if !HasV1(input) {
		return V1Tag{}, false
	}
	d := input[len(input)-V1Size:]
	return V1Tag{
		Title:   v1Field(d[3:33]),
		Artist:  v1Field(d[33:63]),
		Album:   v1Field(d[63:93]),
		Year:    v1Field(d[93:97]),
		Comment: v1Field(d[97:127]),
		Genre:   d[127],
	}, true
}

func v1Field(b []byte) string {
	return strings.TrimRight(strings.TrimRight(string(b), "\x00"), " ")
}
