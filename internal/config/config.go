// Package config loads the quill manifest (quill.yml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/quill/transcribe"
)

// DefaultFile is the manifest name looked up when --config is not given.
const DefaultFile = "quill.yml"

// Target is one file whose generated block quill maintains.
type Target struct {
	Name     string              `mapstructure:"name"`
	Path     string              `mapstructure:"path"`
	Template string              `mapstructure:"template"`
	Inline   string              `mapstructure:"inline"`
	Data     string              `mapstructure:"data"`
	Markers  *transcribe.Markers `mapstructure:"markers"`
}

// Config is the parsed manifest. Paths are absolute after Load.
type Config struct {
	ScratchDir string             `mapstructure:"scratch_dir"`
	Strict     bool               `mapstructure:"strict"`
	LogLevel   string             `mapstructure:"log_level"`
	Markers    transcribe.Markers `mapstructure:"markers"`
	Targets    []Target           `mapstructure:"targets"`

	// Dir is the directory holding the manifest.
	Dir string `mapstructure:"-"`
}

// Load reads the manifest at path. Settings can be overridden with QUILL_*
// environment variables, e.g. QUILL_STRICT=false.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s not found. Run 'quill init' to create one", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("QUILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("scratch_dir", "")
	v.SetDefault("strict", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("markers.start", transcribe.DefaultMarkers.Start)
	v.SetDefault("markers.end", transcribe.DefaultMarkers.End)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Dir = filepath.Dir(abs)
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) resolvePaths() {
	if c.ScratchDir != "" {
		c.ScratchDir = c.resolve(c.ScratchDir)
	}
	for i := range c.Targets {
		t := &c.Targets[i]
		if t.Name == "" {
			t.Name = t.Path
		}
		t.Path = c.resolve(t.Path)
		if t.Template != "" {
			t.Template = c.resolve(t.Template)
		}
		if t.Data != "" {
			t.Data = c.resolve(t.Data)
		}
	}
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// Validate checks markers and targets.
func (c *Config) Validate() error {
	if err := c.Markers.Validate(); err != nil {
		return fmt.Errorf("markers: %w", err)
	}

	seen := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		switch {
		case t.Path == "":
			return fmt.Errorf("target %d: path is required", i+1)
		case t.Template == "" && t.Inline == "":
			return fmt.Errorf("target %s: one of template or inline is required", t.Name)
		case t.Template != "" && t.Inline != "":
			return fmt.Errorf("target %s: template and inline are mutually exclusive", t.Name)
		case seen[t.Name]:
			return fmt.Errorf("target %s: duplicate name", t.Name)
		}
		if t.Markers != nil {
			if err := t.Markers.Validate(); err != nil {
				return fmt.Errorf("target %s markers: %w", t.Name, err)
			}
		}
		seen[t.Name] = true
	}
	return nil
}

// MarkersFor returns the target's markers, falling back to the manifest's.
func (c *Config) MarkersFor(t Target) transcribe.Markers {
	if t.Markers != nil {
		return *t.Markers
	}
	return c.Markers
}

// Select returns the targets named by names, matched against target names
// and paths. No names selects every target.
func (c *Config) Select(names []string) ([]Target, error) {
	if len(names) == 0 {
		return c.Targets, nil
	}

	out := make([]Target, 0, len(names))
	for _, n := range names {
		i := slices.IndexFunc(c.Targets, func(t Target) bool {
			return t.Name == n || t.Path == c.resolve(n)
		})
		if i < 0 {
			return nil, fmt.Errorf("unknown target %q", n)
		}
		out = append(out, c.Targets[i])
	}
	return out, nil
}

// LoadData parses the target's YAML data file. A target without one gets an
// empty map.
func (t Target) LoadData() (map[string]any, error) {
	data := map[string]any{}
	if t.Data == "" {
		return data, nil
	}

	b, err := os.ReadFile(t.Data)
	if err != nil {
		return nil, fmt.Errorf("reading data for %s: %w", t.Name, err)
	}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", t.Data, err)
	}
	return data, nil
}
