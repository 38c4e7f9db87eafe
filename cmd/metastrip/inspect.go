package metastrip

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/metastrip/metastrip/internal/files"
	"github.com/metastrip/metastrip/pkg/core"
)

var flagInspectRecursive bool

func init() {
	cmd := &cobra.Command{
		Use:   "inspect <path>...",
		Short: "Show the chunk/frame structure and metadata of media files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().BoolVarP(&flagInspectRecursive, "recursive", "r", false, "descend into subdirectories")
	rootCmd.AddCommand(cmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	var targets []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return err
		}
		if !st.IsDir() {
			targets = append(targets, arg)
			continue
		}
		rels, err := files.Collect(files.Selection{Root: arg, Recursive: flagInspectRecursive})
		if err != nil {
			return err
		}
		for _, rel := range rels {
			targets = append(targets, filepath.Join(arg, rel))
		}
	}

	w := cmd.OutOrStdout()
	for i, path := range targets {
		if len(targets) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := core.Inspect(w, path, data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
