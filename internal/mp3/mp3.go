// Package mp3 implements the MP3 container engine. An MP3 file is modeled
// as up to three spans: an optional ID3v2 tag at offset 0, the MPEG audio
// bitstream, and an optional fixed 128-byte ID3v1 trailer. Frame binary
// layout is owned by the id3 package; this engine owns frame classification
// and tag reconstruction.
package mp3

import (
	"bytes"

	"github.com/metastrip/metastrip/internal/container"
	"github.com/metastrip/metastrip/internal/id3"
)

// Synthetic record IDs for the non-frame spans of the file. Real ID3v2
// frame IDs are uppercase alphanumerics, so these cannot collide.
const (
	// recordAudio is the MPEG bitstream between the tags.
	recordAudio = "MPEG"
	// recordRawTag is an ID3v2 tag that did not parse, kept verbatim.
	recordRawTag = "ID3"
	// recordV1 is the ID3v1 trailer.
	recordV1 = "TAG"
)

// safeFrames is the frame allow-list: descriptive text frames with no
// personal or authoring information. Everything else (APIC, COMM, PRIV,
// USLT, TXXX, WXXX, POPM, ...) is unsafe.
var safeFrames = map[string]bool{
	"TIT2": true, // title
	"TPE1": true, // artist
	"TALB": true, // album
	"TYER": true, // year (v2.3)
	"TDRC": true, // recording time (v2.4)
	"TCON": true, // genre
	"TRCK": true, // track number
}

// Engine is the MP3 container engine.
type Engine struct{}

// New returns the MP3 engine.
func New() *Engine { return &Engine{} }

func (*Engine) Format() container.Format { return container.FormatMP3 }

// Walk splits the file into ID3v2 frames, the audio span, and the ID3v1
// trailer. A declared ID3v2 size reaching into the v1 trailer (or past the
// end of the buffer) is clamped so the tag can still be dropped; an
// unparseable v2 tag becomes a single verbatim record instead of failing,
// so PolicySafe can fall back to stripping the trailer only.
func (*Engine) Walk(input []byte) ([]container.Record, error) {
	v1Start := len(input)
	if id3.HasV1(input) {
		v1Start = len(input) - id3.V1Size
	}
	v2End := id3.DetectV2Size(input)
	if v2End > v1Start {
		v2End = v1Start
	}

	var records []container.Record
	if v2End > 0 {
		if tag, err := id3.Parse(input[:v2End]); err == nil {
			for _, f := range tag.Frames {
				records = append(records, container.Record{ID: f.ID, Payload: f.Body})
			}
		} else {
			records = append(records, container.Record{ID: recordRawTag, Payload: input[:v2End]})
		}
	}
	records = append(records, container.Record{ID: recordAudio, Payload: input[v2End:v1Start]})
	if v1Start < len(input) {
		records = append(records, container.Record{ID: recordV1, Payload: input[v1Start:]})
	}
	return records, nil
}

// Classify tags the audio span essential, safe-listed text frames and a
// verbatim unparseable v2 tag safe, and all other frames plus the ID3v1
// trailer unsafe.
func (*Engine) Classify(id string) container.Class {
	switch {
	case id == recordAudio:
		return container.ClassEssential
	case id == recordRawTag:
		return container.ClassSafe
	case safeFrames[id]:
		return container.ClassSafe
	default:
		return container.ClassUnsafe
	}
}

// Reconstruct reassembles the file from the retained records. Under
// PolicyAll only the audio span survives; an empty span means the tags
// met or overlapped and the file has no audio, which is a structural
// error. Under PolicySafe the retained frames are re-serialized as an
// ID3v2.4 tag in their original order, except that a file with nothing to
// remove is returned byte-for-byte unchanged.
func (*Engine) Reconstruct(input []byte, keep []container.Record, policy container.Policy) ([]byte, error) {
	var audio, rawTag, v1 []byte
	var frames []id3.Frame
	for _, r := range keep {
		switch r.ID {
		case recordAudio:
			audio = r.Payload
		case recordRawTag:
			rawTag = r.Payload
		case recordV1:
			v1 = r.Payload
		default:
			frames = append(frames, id3.Frame{ID: r.ID, Body: r.Payload})
		}
	}

	if policy == container.PolicyAll {
		if len(audio) == 0 {
			return nil, container.NewDecodeError(container.FormatMP3, 0, "no audio data between ID3 tags")
		}
		return bytes.Clone(audio), nil
	}

	if nothingToRemove(input) {
		return bytes.Clone(input), nil
	}

	out := make([]byte, 0, len(rawTag)+len(frames)*16+len(audio)+len(v1))
	if rawTag != nil {
		out = append(out, rawTag...)
	} else if len(frames) > 0 {
		out = append(out, id3.Encode(frames)...)
	}
	out = append(out, audio...)
	out = append(out, v1...)
	return out, nil
}

// nothingToRemove reports whether a safe strip would be a no-op: no ID3v1
// trailer, and either no ID3v2 tag or one whose frames are all safe-listed.
func nothingToRemove(input []byte) bool {
	if id3.HasV1(input) {
		return false
	}
	if id3.DetectV2Size(input) == 0 {
		return true
	}
	tag, err := id3.Parse(input)
	if err != nil {
		return false
	}
	for _, f := range tag.Frames {
		if !safeFrames[f.ID] {
			return false
		}
	}
	return true
}
