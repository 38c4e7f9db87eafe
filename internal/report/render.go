// Package report renders batch results for terminal consumption.
package report

import (
	"fmt"
	"io"

	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/metastrip/metastrip/internal/engine"
)

type PrintOptions struct {
	NoColor bool
	Verbose bool
}

// PrintTable writes a per-file table followed by a summary footer. Skipped
// files are listed only in verbose mode; failures always appear.
func PrintTable(w io.Writer, res engine.Result, opts PrintOptions) error {
	statusOK := color.New(color.FgGreen).SprintFunc()
	statusSkip := color.New(color.FgYellow).SprintFunc()
	statusFail := color.New(color.FgRed).SprintFunc()
	if opts.NoColor {
		plain := fmt.Sprint
		statusOK, statusSkip, statusFail = plain, plain, plain
	}

	table := tablewriter.NewWriter(w)
	table.Header("File", "Format", "Status", "In", "Out", "Saved")
	rows := 0
	for _, f := range res.Files {
		var status, saved string
		switch {
		case f.Err != nil:
			status = statusFail("failed: " + f.Err.Error())
			saved = "-"
		case f.Skipped:
			if !opts.Verbose {
				continue
			}
			status = statusSkip("skipped: " + f.Reason)
			saved = "-"
		default:
			status = statusOK("stripped")
			saved = humanize.Bytes(uint64(f.Saved()))
		}
		table.Append([]string{
			f.Path,
			f.Format.String(),
			status,
			humanize.Bytes(uint64(f.InSize)),
			humanize.Bytes(uint64(f.OutSize)),
			saved,
		})
		rows++
	}
	if rows > 0 {
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d stripped, %d skipped, %d failed, %s saved\n",
		res.Processed, res.Skipped, res.Failed, humanize.Bytes(uint64(res.SavedBytes())))
	if res.Duration > 0 {
		fmt.Fprintf(w, "Duration: %.2fs\n", res.Duration.Seconds())
	}
	return nil
}
