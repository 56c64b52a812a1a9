// Package project loads .buildstamp.yaml, the per-project configuration
// consumed by the buildstamp CLI.
//
// The file carries project metadata (the facts that have no environment
// source of their own) plus the fact selection and output options:
//
//	project:
//	  name: myapp
//	  version: 0.4.1
//	output: internal/buildinfo/buildinfo.go
//	package: buildinfo
//	include: [timestamp, version, profile, flags]
//	require: [vcs-revision]
//	extra:
//	  BuildChannel: nightly
//	tables:
//	  Deps: {yaml: v3}
//	table_style: map
package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the conventional config file name, looked up relative to
// the working directory.
const DefaultFile = ".buildstamp.yaml"

// Config is the parsed .buildstamp.yaml.
type Config struct {
	Project ProjectMeta `yaml:"project"`

	// Output is the path the generated file is written to.
	Output string `yaml:"output"`

	// Package is the package clause of the generated file.
	Package string `yaml:"package"`

	// Include, Require and Exclude hold fact kind strings
	// ("timestamp", "vcs-revision", ...), applied in that order.
	Include []string `yaml:"include"`
	Require []string `yaml:"require"`
	Exclude []string `yaml:"exclude"`

	// Extra holds custom scalar constants; Tables holds custom lookup
	// tables. Names must be valid exported Go identifiers.
	Extra  map[string]string            `yaml:"extra"`
	Tables map[string]map[string]string `yaml:"tables"`

	// TableStyle is "map" (default) or "pairs".
	TableStyle string `yaml:"table_style"`
}

// ProjectMeta mirrors the metadata facts of a package manifest.
type ProjectMeta struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Description string   `yaml:"description"`
	Homepage    string   `yaml:"homepage"`
	Authors     []string `yaml:"authors"`
	Features    []string `yaml:"features"`
}

// Load reads and parses a config file.
// Returns nil (not an error) if the file does not exist, so callers can
// fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the config to path, pretty-printed. Used by `buildstamp init`.
func Save(path string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
