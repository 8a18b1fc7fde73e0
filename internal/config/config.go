package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr             = "localhost:8080"
	DefaultGeohashPrecision = 7
	defaultStateDir         = "~/.displayer"
)

type Config struct {
	Root              string   `yaml:"root" json:"root"`
	Addr              string   `yaml:"addr" json:"addr"`
	IncludeExtensions []string `yaml:"include_extensions" json:"include_extensions"`
	TemplateDir       string   `yaml:"template_dir" json:"template_dir"`
	LogFile           string   `yaml:"log_file" json:"log_file"`
	LogJSON           bool     `yaml:"log_json" json:"log_json"`
	ExportPath        string   `yaml:"export_path" json:"export_path"`
	GeohashPrecision  uint     `yaml:"geohash_precision" json:"geohash_precision"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:              DefaultAddr,
		IncludeExtensions: []string{"JPG", "JPEG", "PNG"},
		LogFile:           filepath.Join(defaultStateDir, "displayer.log"),
		GeohashPrecision:  DefaultGeohashPrecision,
	}
}

// LoadFromFile reads a YAML file over the defaults. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks required fields, expands "~" in paths, makes the root
// absolute and fills in defaults for empty optional fields.
func (c *Config) Validate() error {
	if c.Root == "" {
		return &ValidationError{Field: "root", Message: "root directory is required"}
	}
	if c.GeohashPrecision == 0 {
		c.GeohashPrecision = DefaultGeohashPrecision
	}
	if c.GeohashPrecision > 12 {
		return &ValidationError{Field: "geohash_precision", Message: "must be between 1 and 12"}
	}

	root, err := homedir.Expand(c.Root)
	if err != nil {
		return &ValidationError{Field: "root", Message: err.Error()}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return &ValidationError{Field: "root", Message: err.Error()}
	}
	c.Root = root

	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if len(c.IncludeExtensions) == 0 {
		c.IncludeExtensions = DefaultConfig().IncludeExtensions
	}
	if c.LogFile == "" {
		c.LogFile = DefaultConfig().LogFile
	}

	for _, p := range []*string{&c.LogFile, &c.TemplateDir, &c.ExportPath} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return &ValidationError{Field: "path", Message: err.Error()}
		}
		*p = expanded
	}

	return nil
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
