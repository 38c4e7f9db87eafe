// Package png implements the PNG chunk engine: signature check, big-endian
// length-prefixed chunk walk, criticality-based classification, and verbatim
// chunk re-emission (CRCs are passed through, never recomputed).
package png

import (
	"encoding/binary"

	"github.com/metastrip/metastrip/internal/container"
)

// Signature is the fixed 8-byte PNG file signature.
var Signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// chunkOverhead is length (4) + type (4) + CRC (4) around every payload.
const chunkOverhead = 12

// safeAncillary is the ancillary subset required for correct rendering or
// color interpretation. Everything ancillary outside this set is stripped
// metadata (tEXt, zTXt, iTXt, tIME, eXIf, unknown chunks).
var safeAncillary = map[string]bool{
	"tRNS": true,
	"gAMA": true,
	"cHRM": true,
	"sRGB": true,
	"sBIT": true,
	"pHYs": true,
}

// Engine is the PNG container engine.
type Engine struct{}

// New returns the PNG engine.
func New() *Engine { return &Engine{} }

func (*Engine) Format() container.Format { return container.FormatPNG }

// Walk verifies the signature and scans the chunk sequence. Each record's
// payload covers the chunk data only, excluding the trailing CRC. A declared
// length that would overrun the input is a hard decode error.
func (*Engine) Walk(input []byte) ([]container.Record, error) {
	var records []container.Record
	err := scan(input, func(id string, payload, _ []byte) {
		records = append(records, container.Record{ID: id, Payload: payload})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Classify tags critical chunks and the safe ancillary subset as essential;
// all other ancillary chunks are unsafe. PolicyAll and PolicySafe therefore
// strip the identical set, matching the established output format.
func (*Engine) Classify(id string) container.Class {
	if isCritical(id) || safeAncillary[id] {
		return container.ClassEssential
	}
	return container.ClassUnsafe
}

// Reconstruct re-emits the signature followed by each retained chunk
// verbatim: length, type, payload and original CRC. The retained set is
// recomputed from the policy so each chunk span can be copied whole from
// the input, CRC included. PNG has no container-level size field to patch.
func (e *Engine) Reconstruct(input []byte, keep []container.Record, policy container.Policy) ([]byte, error) {
	n := len(Signature)
	for _, r := range keep {
		n += chunkOverhead + len(r.Payload)
	}

	out := make([]byte, 0, n)
	out = append(out, Signature...)
	err := scan(input, func(id string, _, raw []byte) {
		if container.Retained(e.Classify(id), policy) {
			out = append(out, raw...)
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scan walks input chunk by chunk, invoking fn with the chunk type, its
// payload, and the raw length+type+payload+CRC span.
func scan(input []byte, fn func(id string, payload, raw []byte)) error {
	if err := checkSignature(input); err != nil {
		return err
	}

	pos := len(Signature)
	for pos+8 <= len(input) {
		length := int(binary.BigEndian.Uint32(input[pos : pos+4]))
		id := string(input[pos+4 : pos+8])

		end := pos + chunkOverhead + length
		if end < pos || end > len(input) {
			return container.NewDecodeError(container.FormatPNG, pos, "chunk "+id+" length overruns input")
		}

		fn(id, input[pos+8:pos+8+length], input[pos:end])
		pos = end
	}
	return nil
}

// isCritical applies the standard PNG convention: a chunk is critical iff
// bit 0x20 of the first type byte is clear.
func isCritical(id string) bool {
	return len(id) == 4 && id[0]&0x20 == 0
}

func checkSignature(input []byte) error {
	if len(input) < len(Signature) {
		return container.NewDecodeError(container.FormatPNG, 0, "input shorter than PNG signature")
	}
	for i, b := range Signature {
		if input[i] != b {
			return container.NewDecodeError(container.FormatPNG, 0, "missing PNG signature")
		}
	}
	return nil
}
