// Package wav implements the WAV container engine over the shared RIFF
// chunk grammar.
package wav

import (
	"github.com/metastrip/metastrip/internal/container"
	"github.com/metastrip/metastrip/internal/riff"
)

// FourCC is the RIFF form type for WAVE files.
const FourCC = "WAVE"

// essential chunks are always retained, regardless of policy.
var essential = map[string]bool{
	"fmt ": true,
	"data": true,
	"fact": true,
}

// safe chunks are non-sensitive metadata retained under PolicySafe.
var safe = map[string]bool{
	"LIST": true,
	"cue ": true,
	"smpl": true,
	"inst": true,
}

// Engine is the WAV container engine.
type Engine struct{}

// New returns the WAV engine.
func New() *Engine { return &Engine{} }

func (*Engine) Format() container.Format { return container.FormatWAV }

// Walk verifies the RIFF/WAVE header and scans the chunk sequence. A final
// chunk whose declared size extends past the buffer is clamped to the bytes
// actually available rather than rejected; hardware recorders routinely
// truncate the data chunk.
func (*Engine) Walk(input []byte) ([]container.Record, error) {
	if err := riff.CheckHeader(container.FormatWAV, input, FourCC); err != nil {
		return nil, err
	}
	return riff.WalkChunks(container.FormatWAV, input[riff.HeaderSize:], riff.HeaderSize, true)
}

// Classify tags fmt /data/fact essential, LIST/cue /smpl/inst safe, and
// everything else (bext, iXML, "ID3 ", JUNK, unknown) unsafe metadata.
func (*Engine) Classify(id string) container.Class {
	switch {
	case essential[id]:
		return container.ClassEssential
	case safe[id]:
		return container.ClassSafe
	default:
		return container.ClassUnsafe
	}
}

// Reconstruct emits RIFF + size placeholder + WAVE, appends the retained
// chunks with recomputed padding, and patches the placeholder with
// output length - 8.
func (*Engine) Reconstruct(_ []byte, keep []container.Record, _ container.Policy) ([]byte, error) {
	return riff.WriteContainer(FourCC, keep), nil
}
