package core_test

import (
	"context"
	"fmt"
	"os"

	"github.com/metastrip/metastrip/pkg/core"
)

// ExampleStrip demonstrates stripping metadata from a single file in memory.
func ExampleStrip() {
	data, err := os.ReadFile("photo.png")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read failed: %v\n", err)
		return
	}

	out, err := core.Strip("photo.png", data, core.PolicySafe)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strip failed: %v\n", err)
		return
	}

	fmt.Printf("%d bytes -> %d bytes\n", len(data), len(out))
	_ = os.WriteFile("photo.png", out, 0644)
}

// ExampleRun shows how to process a directory tree in parallel.
func ExampleRun() {
	cfg := core.BatchConfig{
		Root:      "./media",
		Recursive: true,
		Policy:    core.PolicyAll,
		Workers:   4,
		MaxBytes:  256 << 20, // skip files larger than 256 MiB
	}

	res, err := core.Run(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		return
	}

	fmt.Printf("stripped %d files, %d failed, saved %d bytes\n",
		res.Processed, res.Failed, res.SavedBytes())
}
