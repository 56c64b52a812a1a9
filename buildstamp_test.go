package buildstamp_test

import (
	"bytes"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"buildstamp"
)

// parseGenerated parses a generated file and returns the AST.
func parseGenerated(t *testing.T, path string) *ast.File {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated file does not parse: %v", err)
	}
	return file
}

func TestGenerateExtrasOnly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "buildinfo.go")

	err := buildstamp.None().Extra("Foo", "bar").Generate(out)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	file := parseGenerated(t, out)
	if file.Name.Name != "buildinfo" {
		t.Errorf("package = %q, want %q", file.Name.Name, "buildinfo")
	}

	var consts []string
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range gd.Specs {
			if vs, ok := spec.(*ast.ValueSpec); ok {
				for _, n := range vs.Names {
					consts = append(consts, n.Name)
				}
			}
		}
	}
	if len(consts) != 1 || consts[0] != "Foo" {
		t.Fatalf("declarations = %v, want exactly [Foo]", consts)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `const Foo = "bar"`) {
		t.Errorf("missing constant:\n%s", data)
	}
}

func TestGenerateRequiredVCSOutsideRepoWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "buildinfo.go")

	err := buildstamp.None().
		Require(buildstamp.VCSRevision).
		WithDir(dir).
		Generate(out)
	if err == nil {
		t.Fatal("expected error outside a git work tree")
	}

	var ge *buildstamp.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("error type = %T, want *GenerationError", err)
	}
	if ge.Stage != "collect" {
		t.Errorf("Stage = %q, want %q", ge.Stage, "collect")
	}
	var ce *buildstamp.CollectionError
	if !errors.As(err, &ce) {
		t.Fatalf("GenerationError does not wrap *CollectionError: %v", err)
	}

	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output file exists after failed generation")
	}
}

func TestGenerateDuplicateExtraName(t *testing.T) {
	out := filepath.Join(t.TempDir(), "buildinfo.go")

	err := buildstamp.None().
		Include(buildstamp.Timestamp).
		Extra("Timestamp", "collides").
		Generate(out)

	var dup *buildstamp.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want wrapped *DuplicateNameError", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output file exists after failed generation")
	}
}

func TestGenerateBadExtraName(t *testing.T) {
	out := filepath.Join(t.TempDir(), "buildinfo.go")

	err := buildstamp.None().Extra("not exported", "x").Generate(out)

	var uve *buildstamp.UnsupportedValueError
	if !errors.As(err, &uve) {
		t.Fatalf("error = %v, want wrapped *UnsupportedValueError", err)
	}
	var ge *buildstamp.GenerationError
	if !errors.As(err, &ge) || ge.Stage != "render" {
		t.Errorf("error = %v, want render-stage GenerationError", err)
	}
}

func TestGenerateWriteFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "buildinfo.go")

	err := buildstamp.None().Extra("Foo", "bar").Generate(out)
	var ge *buildstamp.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("error type = %T, want *GenerationError", err)
	}
	if ge.Stage != "write" {
		t.Errorf("Stage = %q, want %q", ge.Stage, "write")
	}
}

func TestRenderToWriter(t *testing.T) {
	var buf bytes.Buffer
	err := buildstamp.None().
		Extra("Channel", "nightly").
		ExtraTable("Deps", map[string]string{"yaml": "v3"}).
		WithPackage("stampinfo").
		Render(&buf)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := buf.String()
	if !strings.Contains(text, "package stampinfo") {
		t.Errorf("missing package clause:\n%s", text)
	}
	if !strings.Contains(text, `const Channel = "nightly"`) {
		t.Errorf("missing constant:\n%s", text)
	}
	if !strings.Contains(text, "var Deps = map[string]string{") {
		t.Errorf("missing table:\n%s", text)
	}
}

func TestRenderPairsStyle(t *testing.T) {
	var buf bytes.Buffer
	err := buildstamp.None().
		ExtraTable("Deps", map[string]string{"yaml": "v3"}).
		WithTableStyle(buildstamp.TablePairs).
		Render(&buf)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "func DepsLookup(key string) (string, bool)") {
		t.Errorf("missing lookup helper:\n%s", buf.String())
	}
}

func TestDefaultSelection(t *testing.T) {
	var buf bytes.Buffer
	// Default facts are all optional: with a bare environment this must
	// still render, using fallbacks.
	if err := buildstamp.Default().Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, name := range []string{"Timestamp", "Version", "Profile", "Flags"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("default output missing %s:\n%s", name, buf.String())
		}
	}
}

func TestExcludeRemovesKind(t *testing.T) {
	var buf bytes.Buffer
	err := buildstamp.Default().
		Exclude(buildstamp.Timestamp, buildstamp.Flags).
		Render(&buf)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	text := buf.String()
	if strings.Contains(text, "Timestamp") || strings.Contains(text, "Flags") {
		t.Errorf("excluded facts still rendered:\n%s", text)
	}
	if !strings.Contains(text, "Version") {
		t.Errorf("surviving fact missing:\n%s", text)
	}
}

func TestRequireUpgradesExistingSelection(t *testing.T) {
	// Including then requiring the same kind must keep one entry and make
	// it required: a missing source now fails.
	err := buildstamp.None().
		Include(buildstamp.Profile).
		Require(buildstamp.Profile).
		Generate(filepath.Join(t.TempDir(), "out.go"))
	if os.Getenv("BUILD_PROFILE") != "" {
		t.Skip("BUILD_PROFILE set in environment")
	}
	var ce *buildstamp.CollectionError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want wrapped *CollectionError", err)
	}
}

func TestGenerateOverwritesExistingFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "buildinfo.go")
	if err := os.WriteFile(out, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := buildstamp.None().Extra("Foo", "bar").Generate(out); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("existing file content not overwritten")
	}
}
