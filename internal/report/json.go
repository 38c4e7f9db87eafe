package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/metastrip/metastrip/internal/engine"
)

type jsonFile struct {
	Path    string `json:"path"`
	Format  string `json:"format"`
	InSize  int64  `json:"in_size"`
	OutSize int64  `json:"out_size"`
	Saved   int64  `json:"saved"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

type jsonReport struct {
	Files      []jsonFile    `json:"files"`
	Processed  int           `json:"processed"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	SavedBytes int64         `json:"saved_bytes"`
	Duration   time.Duration `json:"duration_ns"`
}

// PrintJSON writes the machine-readable form of a batch result.
func PrintJSON(w io.Writer, res engine.Result) error {
	out := jsonReport{
		Files:      make([]jsonFile, 0, len(res.Files)),
		Processed:  res.Processed,
		Skipped:    res.Skipped,
		Failed:     res.Failed,
		SavedBytes: res.SavedBytes(),
		Duration:   res.Duration,
	}
	for _, f := range res.Files {
		jf := jsonFile{
			Path:    f.Path,
			Format:  f.Format.String(),
			InSize:  f.InSize,
			OutSize: f.OutSize,
			Saved:   f.Saved(),
			Skipped: f.Skipped,
			Reason:  f.Reason,
		}
		if f.Err != nil {
			jf.Error = f.Err.Error()
		}
		out.Files = append(out.Files, jf)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
