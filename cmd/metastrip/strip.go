package metastrip

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metastrip/metastrip/internal/config"
	"github.com/metastrip/metastrip/internal/container"
	"github.com/metastrip/metastrip/internal/engine"
	"github.com/metastrip/metastrip/internal/report"
	"github.com/metastrip/metastrip/internal/update"
)

var (
	flagPath       string
	flagPolicy     string
	flagOut        string
	flagInclude    string
	flagExclude    string
	flagRecursive  bool
	flagMaxBytes   int64
	flagBackup     bool
	flagKeepLarger bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "strip",
		Short: "Strip metadata from media files",
		RunE:  runStrip,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "file or directory to process")
	cmd.Flags().StringVar(&flagPolicy, "policy", "", "strip policy: all|safe|none (default all)")
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "write stripped files under this directory instead of in place")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().BoolVarP(&flagRecursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 256<<20, "skip files larger than this")
	cmd.Flags().BoolVar(&flagBackup, "backup", false, "keep a .bak copy before in-place rewrites")
	cmd.Flags().BoolVar(&flagKeepLarger, "keep-larger", false, "write output even when it is not smaller than the input")
}

func runStrip(cmd *cobra.Command, _ []string) error {
	abs, _ := filepath.Abs(flagPath)
	// Load configs: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	policyStr := pickString(flagPolicy, lcfg.Policy, gcfg.Policy)
	if policyStr == "" {
		policyStr = "all"
	}
	policy, err := container.ParsePolicy(policyStr)
	if err != nil {
		return err
	}

	// --max-bytes has a non-zero default, so config can only take effect
	// when the flag was not set explicitly.
	maxBytes := flagMaxBytes
	if !cmd.Flags().Changed("max-bytes") {
		if v := pickInt64(0, lcfg.MaxBytes, gcfg.MaxBytes); v != 0 {
			maxBytes = v
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if pickBool(flagVerbose, lcfg.Verbose, gcfg.Verbose) {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	cfg := engine.Config{
		Root:         abs,
		Out:          pickString(flagOut, lcfg.Out, gcfg.Out),
		IncludeGlobs: splitGlobs(pickString(flagInclude, lcfg.Include, gcfg.Include)),
		ExcludeGlobs: splitGlobs(pickString(flagExclude, lcfg.Exclude, gcfg.Exclude)),
		Recursive:    pickBool(flagRecursive, lcfg.Recursive, gcfg.Recursive),
		MaxBytes:     maxBytes,
		Workers:      pickInt(flagWorkers, lcfg.Workers, gcfg.Workers),
		Policy:       policy,
		DryRun:       flagDryRun,
		Backup:       pickBool(flagBackup, lcfg.Backup, gcfg.Backup),
		KeepLarger:   pickBool(flagKeepLarger, lcfg.KeepLarger, gcfg.KeepLarger),
		NoCache:      flagNoCache,
		Logger:       logger,
	}

	res, err := engine.Run(context.Background(), cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		if err := report.PrintJSON(w, res); err != nil {
			return err
		}
	} else {
		opts := report.PrintOptions{
			NoColor: pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor),
			Verbose: flagVerbose || flagDryRun,
		}
		if err := report.PrintTable(w, res, opts); err != nil {
			return err
		}
	}

	if latest, newer, _ := update.Check(version, flagNoUpdateCheck); newer {
		fmt.Fprintf(os.Stderr, "metastrip %s is available (current %s)\n", latest, version)
	}

	if res.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

func splitGlobs(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
