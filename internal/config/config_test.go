package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	content := "policy: safe\nworkers: 4\nexclude: \"**/raw/**\"\nbackup: true\n"
	if err := os.WriteFile(filepath.Join(dir, ".metastrip.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Policy == nil || *cfg.Policy != "safe" {
		t.Fatalf("policy: %v", cfg.Policy)
	}
	if cfg.Workers == nil || *cfg.Workers != 4 {
		t.Fatalf("workers: %v", cfg.Workers)
	}
	if cfg.Exclude == nil || *cfg.Exclude != "**/raw/**" {
		t.Fatalf("exclude: %v", cfg.Exclude)
	}
	if cfg.Backup == nil || !*cfg.Backup {
		t.Fatalf("backup: %v", cfg.Backup)
	}
	// absent keys stay nil so flag merging can tell them apart from zero
	if cfg.MaxBytes != nil || cfg.Recursive != nil {
		t.Fatal("absent keys must be nil")
	}
}

func TestLoadLocalMissing(t *testing.T) {
	if _, err := LoadLocal(t.TempDir()); err == nil {
		t.Fatal("expected error when no config present")
	}
}

func TestLoadFileInvalid(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(p, []byte("policy: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected YAML error")
	}
}
