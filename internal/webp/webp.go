// Package webp implements the WebP container engine over the shared RIFF
// chunk grammar.
package webp

import (
	"github.com/metastrip/metastrip/internal/container"
	"github.com/metastrip/metastrip/internal/riff"
)

// FourCC is the RIFF form type for WebP files.
const FourCC = "WEBP"

// imageData holds the pure bitstream chunks that survive PolicyAll.
var imageData = map[string]bool{
	"VP8 ": true,
	"VP8L": true,
	"ALPH": true,
}

// animControl holds the extended-format and animation control chunks kept
// under PolicySafe but dropped under PolicyAll.
var animControl = map[string]bool{
	"VP8X": true,
	"ANIM": true,
	"ANMF": true,
}

// Engine is the WebP container engine.
type Engine struct{}

// New returns the WebP engine.
func New() *Engine { return &Engine{} }

func (*Engine) Format() container.Format { return container.FormatWebP }

// Walk verifies the RIFF/WEBP header and scans the chunk sequence. Unlike
// the WAV walker, a chunk overrunning the input is a hard decode error.
func (*Engine) Walk(input []byte) ([]container.Record, error) {
	if err := riff.CheckHeader(container.FormatWebP, input, FourCC); err != nil {
		return nil, err
	}
	return riff.WalkChunks(container.FormatWebP, input[riff.HeaderSize:], riff.HeaderSize, false)
}

// Classify tags the pure image-data chunks essential, the extended-format
// and animation chunks safe, and everything else (ICCP, EXIF, "XMP ",
// unknown) unsafe metadata.
func (*Engine) Classify(id string) container.Class {
	switch {
	case imageData[id]:
		return container.ClassEssential
	case animControl[id]:
		return container.ClassSafe
	default:
		return container.ClassUnsafe
	}
}

// Reconstruct copies the RIFF/WEBP header, appends the retained chunks with
// their padding recomputed, and patches the RIFF size with
// 4 + total retained chunk bytes including padding.
func (*Engine) Reconstruct(_ []byte, keep []container.Record, _ container.Policy) ([]byte, error) {
	return riff.WriteContainer(FourCC, keep), nil
}
