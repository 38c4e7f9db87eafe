package engine

import (
	"context"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metastrip/metastrip/internal/container"
)

func pngChunk(id string, payload []byte) []byte {
	out := binary.BigEndian.AppendUint32(nil, uint32(len(payload)))
	out = append(out, id...)
	out = append(out, payload...)
	crc := crc32.NewIEEE()
	crc.Write([]byte(id))
	crc.Write(payload)
	return binary.BigEndian.AppendUint32(out, crc.Sum32())
}

func taggedPNG() []byte {
	out := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], 1)
	binary.BigEndian.PutUint32(ihdr[4:8], 1)
	ihdr[8] = 8
	out = append(out, pngChunk("IHDR", ihdr)...)
	out = append(out, pngChunk("tEXt", []byte("Author\x00somebody"))...)
	out = append(out, pngChunk("IDAT", []byte{0, 1, 2})...)
	out = append(out, pngChunk("IEND", nil)...)
	return out
}

func writeFile(t *testing.T, dir, rel string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

func TestRunInPlace(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "img.png", taggedPNG())
	before, _ := os.Stat(src)

	res, err := Run(context.Background(), Config{
		Root:      dir,
		Recursive: true,
		Policy:    container.PolicyAll,
		Workers:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Zero(t, res.Failed)

	after, _ := os.Stat(src)
	assert.Less(t, after.Size(), before.Size(), "file should shrink in place")
	assert.Positive(t, res.SavedBytes())
}

func TestRunOutputDir(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	writeFile(t, dir, "sub/img.png", taggedPNG())

	res, err := Run(context.Background(), Config{
		Root:      dir,
		Out:       out,
		Recursive: true,
		Policy:    container.PolicyAll,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)

	stripped, err := os.ReadFile(filepath.Join(out, "sub/img.png"))
	require.NoError(t, err)
	assert.Less(t, len(stripped), len(taggedPNG()))

	// source untouched
	orig, err := os.ReadFile(filepath.Join(dir, "sub/img.png"))
	require.NoError(t, err)
	assert.Equal(t, taggedPNG(), orig)
}

func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "img.png", taggedPNG())

	res, err := Run(context.Background(), Config{
		Root:      dir,
		Recursive: true,
		Policy:    container.PolicyAll,
		DryRun:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)

	data, _ := os.ReadFile(src)
	assert.Equal(t, taggedPNG(), data, "dry run must not modify files")
	_, err = os.Stat(filepath.Join(dir, ".metastripcache.json"))
	assert.True(t, os.IsNotExist(err), "dry run must not write the cache")
}

func TestRunBackup(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "img.png", taggedPNG())

	_, err := Run(context.Background(), Config{
		Root:      dir,
		Recursive: true,
		Policy:    container.PolicyAll,
		Backup:    true,
	})
	require.NoError(t, err)

	bak, err := os.ReadFile(src + ".bak")
	require.NoError(t, err)
	assert.Equal(t, taggedPNG(), bak)
}

func TestRunCacheSkipsSecondPass(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "img.png", taggedPNG())
	cfg := Config{Root: dir, Recursive: true, Policy: container.PolicyAll}

	res1, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 1, res1.Processed)

	res2, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Zero(t, res2.Processed)
	assert.Equal(t, 1, res2.Skipped)
	require.Len(t, res2.Files, 1)
	assert.Equal(t, "unchanged since last run", res2.Files[0].Reason)
}

func TestRunOutputDirDoesNotPoisonInPlaceCache(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	src := writeFile(t, dir, "img.png", taggedPNG())

	res1, err := Run(context.Background(), Config{
		Root:      dir,
		Out:       out,
		Recursive: true,
		Policy:    container.PolicyAll,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res1.Processed)

	// The source was never stripped in place, so a follow-up in-place run
	// must strip it rather than skip it as unchanged.
	res2, err := Run(context.Background(), Config{
		Root:      dir,
		Recursive: true,
		Policy:    container.PolicyAll,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res2.Processed)
	assert.Zero(t, res2.Skipped)

	data, _ := os.ReadFile(src)
	assert.Less(t, len(data), len(taggedPNG()), "source must shrink on the in-place run")
}

func TestRunDecodeFailureDoesNotStopBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.png", []byte("not a png at all"))
	writeFile(t, dir, "good.png", taggedPNG())

	res, err := Run(context.Background(), Config{
		Root:      dir,
		Recursive: true,
		Policy:    container.PolicyAll,
		NoCache:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Failed)

	for _, f := range res.Files {
		if f.Path == "bad.png" {
			var de *container.DecodeError
			assert.ErrorAs(t, f.Err, &de)
		}
	}
}

func TestRunSingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "img.png", taggedPNG())

	res, err := Run(context.Background(), Config{
		Root:    src,
		Policy:  container.PolicyAll,
		NoCache: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)

	data, _ := os.ReadFile(src)
	assert.Less(t, len(data), len(taggedPNG()))
}

func TestRunProgressCallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", taggedPNG())
	writeFile(t, dir, "b.png", taggedPNG())

	calls := 0
	_, err := Run(context.Background(), Config{
		Root:      dir,
		Recursive: true,
		Policy:    container.PolicyAll,
		Workers:   1,
		NoCache:   true,
		Progress:  func() { calls++ },
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
