// Package config holds the canonical builtin type names shared across the
// checker and the vela.yaml project options.
//
// The constants in constants.go are the single source of truth for the
// primitive type names the unifier compares against; the Options struct
// covers everything a developer can tune without rebuilding.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Options represents the top-level vela.yaml configuration.
type Options struct {
	// Color controls terminal coloring of diagnostics: "auto" (default,
	// color when stdout is a terminal), "always", or "never".
	Color string `yaml:"color,omitempty"`

	// Debug holds developer-facing switches.
	Debug DebugOptions `yaml:"debug,omitempty"`

	// Cache configures the module signature cache.
	Cache CacheOptions `yaml:"cache,omitempty"`
}

// DebugOptions gates expensive introspection output.
type DebugOptions struct {
	// DumpGraph writes a dump of the solver's type graph after each
	// session to Dir. Off by default; the dump is large.
	DumpGraph bool `yaml:"dump_graph,omitempty"`

	// Dir is where dump files are written. Defaults to ".vela/debug".
	Dir string `yaml:"dir,omitempty"`
}

// CacheOptions configures the on-disk signature cache.
type CacheOptions struct {
	// Enabled turns the cache on. Default true.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Dir is the cache directory. Defaults to ".vela/cache".
	Dir string `yaml:"dir,omitempty"`
}

// Default returns the options used when no vela.yaml is present.
func Default() *Options {
	enabled := true
	return &Options{
		Color: "auto",
		Debug: DebugOptions{Dir: filepath.Join(".vela", "debug")},
		Cache: CacheOptions{Enabled: &enabled, Dir: filepath.Join(".vela", "cache")},
	}
}

// Load reads and validates vela.yaml from projectDir. A missing file is
// not an error: defaults are returned.
func Load(projectDir string) (*Options, error) {
	data, err := os.ReadFile(filepath.Join(projectDir, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}
	return Parse(data)
}

// Parse decodes options from yaml bytes, filling in defaults for
// omitted fields.
func Parse(data []byte) (*Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *Options) validate() error {
	switch o.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%s: color must be auto, always or never, got %q", ConfigFileName, o.Color)
	}
	return nil
}

// CacheEnabled reports whether the signature cache should be used.
func (o *Options) CacheEnabled() bool {
	return o.Cache.Enabled == nil || *o.Cache.Enabled
}
