// Package config provides configuration loading and management for the
// diagram compiler.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theengineear/upper-doodle-sub000/vocabulary/upper"
	"github.com/theengineear/upper-doodle-sub000/vocabulary/w3c"
)

// Config represents the complete compiler configuration
type Config struct {
	Domain   string            `yaml:"domain"`
	Prefixes map[string]string `yaml:"prefixes"`
	Output   OutputConfig      `yaml:"output"`
	Watch    WatchConfig       `yaml:"watch"`
	NATS     NATSConfig        `yaml:"nats"`
}

// OutputConfig configures serialization of compiled diagrams
type OutputConfig struct {
	// Format is the serialization format ("turtle" or "ntriples")
	Format string `yaml:"format"`
	// Dir is the directory compiled files are written to (empty = stdout)
	Dir string `yaml:"dir"`
}

// WatchConfig configures the diagram file watcher
type WatchConfig struct {
	// Debounce is how long to wait for more changes before recompiling
	Debounce time.Duration `yaml:"debounce"`
}

// NATSConfig configures knowledge-graph publishing
type NATSConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Domain: "",
		Prefixes: map[string]string{
			"rdf":        w3c.RDFNamespace,
			"rdfs":       w3c.RDFSNamespace,
			"xsd":        w3c.XSDNamespace,
			upper.Prefix: upper.Namespace,
		},
		Output: OutputConfig{
			Format: "turtle",
			Dir:    "",
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		NATS: NATSConfig{
			URL: "",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Format != "turtle" && c.Output.Format != "ntriples" {
		return fmt.Errorf("output.format must be turtle or ntriples")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	for name, ns := range c.Prefixes {
		if ns == "" {
			return fmt.Errorf("prefixes.%s must not be empty", name)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Domain != "" {
		c.Domain = other.Domain
	}

	// Prefixes merge entry-by-entry so user configs can extend the defaults.
	for name, ns := range other.Prefixes {
		if ns != "" {
			c.Prefixes[name] = ns
		}
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}

	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
}
