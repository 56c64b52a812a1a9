package main

// config.go — turns a parsed .buildstamp.yaml into a buildstamp.Details
// selection. Map-valued config sections (extra, tables) are applied in
// sorted name order so the generated file is deterministic across runs.

import (
	"fmt"
	"sort"

	"buildstamp"
	"buildstamp/internal/project"
)

// detailsFromConfig builds the fact selection from cfg. A nil cfg (no
// config file) yields the default selection and no output path.
func detailsFromConfig(cfg *project.Config) (*buildstamp.Details, string, error) {
	if cfg == nil {
		return buildstamp.Default(), "", nil
	}

	d := buildstamp.Default()
	if len(cfg.Include) > 0 || len(cfg.Require) > 0 {
		d = buildstamp.None()
	}

	for _, s := range cfg.Include {
		k, err := buildstamp.ParseKind(s)
		if err != nil {
			return nil, "", fmt.Errorf("include: %w", err)
		}
		d.Include(k)
	}
	for _, s := range cfg.Require {
		k, err := buildstamp.ParseKind(s)
		if err != nil {
			return nil, "", fmt.Errorf("require: %w", err)
		}
		d.Require(k)
	}
	for _, s := range cfg.Exclude {
		k, err := buildstamp.ParseKind(s)
		if err != nil {
			return nil, "", fmt.Errorf("exclude: %w", err)
		}
		d.Exclude(k)
	}

	for _, name := range sortedNames(cfg.Extra) {
		d.Extra(name, cfg.Extra[name])
	}
	for _, name := range sortedTableNames(cfg.Tables) {
		d.ExtraTable(name, cfg.Tables[name])
	}

	style, err := buildstamp.ParseTableStyle(cfg.TableStyle)
	if err != nil {
		return nil, "", err
	}
	d.WithTableStyle(style)

	if cfg.Package != "" {
		d.WithPackage(cfg.Package)
	}
	d.WithMetadata(buildstamp.Metadata{
		Name:        cfg.Project.Name,
		Version:     cfg.Project.Version,
		Description: cfg.Project.Description,
		Homepage:    cfg.Project.Homepage,
		Authors:     cfg.Project.Authors,
		Features:    cfg.Project.Features,
	})

	return d, cfg.Output, nil
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedTableNames(m map[string]map[string]string) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
