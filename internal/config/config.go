package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for metastrip. Fields
// are pointers so an absent key can be told apart from a zero value when
// merging with CLI flags.
type FileConfig struct {
	Policy     *string `yaml:"policy"`
	Out        *string `yaml:"out"`
	Include    *string `yaml:"include"`
	Exclude    *string `yaml:"exclude"`
	MaxBytes   *int64  `yaml:"max_bytes"`
	Workers    *int    `yaml:"workers"`
	Recursive  *bool   `yaml:"recursive"`
	Backup     *bool   `yaml:"backup"`
	KeepLarger *bool   `yaml:"keep_larger"`
	NoColor    *bool   `yaml:"no_color"`
	Verbose    *bool   `yaml:"verbose"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a directory-local config file in the given root.
// It supports .metastrip.yml/.yaml and metastrip.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".metastrip.yml", ".metastrip.yaml", "metastrip.yml", "metastrip.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "metastrip", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
