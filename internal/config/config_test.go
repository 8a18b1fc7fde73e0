package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
)

func expectField(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("expected validation error")
	}
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if validationErr.Field != field {
		t.Fatalf("expected field %s, got %s", field, validationErr.Field)
	}
}

func TestConfigValidate_RequiresRoot(t *testing.T) {
	// A missing root is reported as ValidationError(field=root).
	cfg := &Config{Addr: DefaultAddr}
	expectField(t, cfg.Validate(), "root")
}

func TestConfigValidate_RejectsGeohashPrecision(t *testing.T) {
	// Precision above 12 cannot be represented by a geohash.
	cfg := &Config{Root: "/tmp/photos", GeohashPrecision: 13}
	expectField(t, cfg.Validate(), "geohash_precision")
}

func TestConfigValidate_FillsDefaults(t *testing.T) {
	// Empty optional fields receive their defaults.
	cfg := &Config{Root: "/tmp/photos"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	if cfg.Addr != DefaultAddr {
		t.Fatalf("unexpected addr: %s", cfg.Addr)
	}
	if cfg.GeohashPrecision != DefaultGeohashPrecision {
		t.Fatalf("unexpected precision: %d", cfg.GeohashPrecision)
	}
	if strings.Join(cfg.IncludeExtensions, ",") != "JPG,JPEG,PNG" {
		t.Fatalf("unexpected extensions: %v", cfg.IncludeExtensions)
	}

	home, err := homedir.Dir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}
	if cfg.LogFile != filepath.Join(home, ".displayer", "displayer.log") {
		t.Fatalf("unexpected log file: %s", cfg.LogFile)
	}
}

func TestConfigValidate_ExpandsHomeAndAbsolutizesRoot(t *testing.T) {
	// "~" is expanded and relative roots become absolute.
	home, err := homedir.Dir()
	if err != nil {
		t.Fatalf("failed to get home dir: %v", err)
	}

	cfg := &Config{Root: "~/Pictures", ExportPath: "~/out/dataset.geojson"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if cfg.Root != filepath.Join(home, "Pictures") {
		t.Fatalf("unexpected root: %s", cfg.Root)
	}
	if cfg.ExportPath != filepath.Join(home, "out", "dataset.geojson") {
		t.Fatalf("unexpected export path: %s", cfg.ExportPath)
	}

	rel := &Config{Root: "photos"}
	if err := rel.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !filepath.IsAbs(rel.Root) {
		t.Fatalf("expected absolute root, got %s", rel.Root)
	}
}

func TestLoadFromFile_ReadsYAMLIntoConfig(t *testing.T) {
	// Fields set in YAML override defaults; others keep them.
	yamlContent := strings.Join([]string{
		"root: /data/photos",
		"addr: 0.0.0.0:9000",
		"include_extensions: [jpg]",
		"geohash_precision: 9",
		"log_json: true",
	}, "\n")

	filePath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(filePath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFile(filePath)
	if err != nil {
		t.Fatalf("load from file failed: %v", err)
	}
	if cfg.Root != "/data/photos" || cfg.Addr != "0.0.0.0:9000" {
		t.Fatalf("unexpected root/addr: %+v", cfg)
	}
	if len(cfg.IncludeExtensions) != 1 || cfg.IncludeExtensions[0] != "jpg" {
		t.Fatalf("unexpected extensions: %v", cfg.IncludeExtensions)
	}
	if cfg.GeohashPrecision != 9 || !cfg.LogJSON {
		t.Fatalf("unexpected precision/log_json: %+v", cfg)
	}
	if cfg.LogFile != DefaultConfig().LogFile {
		t.Fatalf("expected default log file, got %s", cfg.LogFile)
	}
}

func TestLoadFromFile_ReturnsReadError(t *testing.T) {
	// A missing config file is a read error.
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected read error for missing config file")
	}
}

func TestLoadFromFile_ReturnsYAMLParseError(t *testing.T) {
	// Broken YAML is an unmarshal error.
	filePath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(filePath, []byte("root: ["), 0644); err != nil {
		t.Fatalf("failed to write broken yaml: %v", err)
	}

	_, err := LoadFromFile(filePath)
	if err == nil {
		t.Fatal("expected yaml parse error")
	}
}

func TestValidationError_ErrorFormat(t *testing.T) {
	// ValidationError.Error() formats as "field: message".
	err := (&ValidationError{Field: "root", Message: "is required"}).Error()
	if err != "root: is required" {
		t.Fatalf("unexpected validation error format: %s", err)
	}
}
