package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theengineear/upper-doodle-sub000/vocabulary/upper"
	"github.com/theengineear/upper-doodle-sub000/vocabulary/w3c"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.Format != "turtle" {
		t.Errorf("expected default format turtle, got %s", cfg.Output.Format)
	}
	if cfg.Watch.Debounce != 100*time.Millisecond {
		t.Errorf("expected default debounce 100ms, got %s", cfg.Watch.Debounce)
	}
	if cfg.Prefixes["rdf"] != w3c.RDFNamespace {
		t.Errorf("expected rdf prefix by default, got %s", cfg.Prefixes["rdf"])
	}
	if cfg.Prefixes[upper.Prefix] != upper.Namespace {
		t.Errorf("expected %s prefix by default, got %s", upper.Prefix, cfg.Prefixes[upper.Prefix])
	}
	if cfg.NATS.URL != "" {
		t.Errorf("expected publishing disabled by default, got %s", cfg.NATS.URL)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "ntriples format",
			modify:  func(c *Config) { c.Output.Format = "ntriples" },
			wantErr: false,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Output.Format = "jsonld" },
			wantErr: true,
		},
		{
			name:    "empty format",
			modify:  func(c *Config) { c.Output.Format = "" },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Watch.Debounce = -time.Second },
			wantErr: true,
		},
		{
			name:    "empty prefix namespace",
			modify:  func(c *Config) { c.Prefixes["bad"] = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upper-doodle.yaml")

	content := `domain: movie
prefixes:
  movie: https://example.com/movie#
output:
  format: ntriples
  dir: build
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Domain != "movie" {
		t.Errorf("expected domain movie, got %s", cfg.Domain)
	}
	if cfg.Prefixes["movie"] != "https://example.com/movie#" {
		t.Errorf("expected movie namespace, got %s", cfg.Prefixes["movie"])
	}
	if cfg.Output.Format != "ntriples" {
		t.Errorf("expected format ntriples, got %s", cfg.Output.Format)
	}
	if cfg.Output.Dir != "build" {
		t.Errorf("expected output dir build, got %s", cfg.Output.Dir)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("domain: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFromFile(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "upper-doodle.yaml")

	cfg := DefaultConfig()
	cfg.Domain = "movie"
	cfg.Output.Dir = "out"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Domain != "movie" {
		t.Errorf("expected domain movie, got %s", loaded.Domain)
	}
	if loaded.Output.Dir != "out" {
		t.Errorf("expected output dir out, got %s", loaded.Output.Dir)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	base.Domain = "movie"

	other := &Config{
		Domain: "books",
		Prefixes: map[string]string{
			"books": "https://example.com/books#",
		},
		Output: OutputConfig{Format: "ntriples"},
		Watch:  WatchConfig{Debounce: 250 * time.Millisecond},
	}

	base.Merge(other)

	if base.Domain != "books" {
		t.Errorf("expected merged domain books, got %s", base.Domain)
	}
	if base.Prefixes["books"] != "https://example.com/books#" {
		t.Error("expected merged prefix to be added")
	}
	if base.Prefixes["rdf"] != w3c.RDFNamespace {
		t.Error("expected default prefixes to survive the merge")
	}
	if base.Output.Format != "ntriples" {
		t.Errorf("expected merged format ntriples, got %s", base.Output.Format)
	}
	if base.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("expected merged debounce 250ms, got %s", base.Watch.Debounce)
	}

	base.Merge(nil)
	if base.Domain != "books" {
		t.Error("merging nil should not change anything")
	}
}
