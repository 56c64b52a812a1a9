// Package buildstamp embeds build-time metadata (timestamps, version
// control identifiers, build flags, project metadata) into a compiled
// program by writing a small generated source file during the build step.
// The main program includes that file and reads the facts as constants.
//
// Typical use from a go:generate line or Makefile:
//
//	err := buildstamp.Default().
//		Require(buildstamp.VCSRevision).
//		WithMetadata(buildstamp.Metadata{Name: "myapp", Version: "1.2.3"}).
//		Generate("internal/buildinfo/buildinfo.go")
//
// Every call is fully self-contained: nothing is cached between calls, so
// concurrent build pipelines may invoke Generate on distinct output paths.
package buildstamp

import (
	"fmt"
	"io"
	"os"

	"buildstamp/internal/collect"
	"buildstamp/internal/emit"
	"buildstamp/internal/facts"
)

// Re-exported types so callers only import this package.
type (
	// Kind identifies a collectible build fact.
	Kind = facts.Kind

	// Metadata supplies project-level facts (name, version, ...).
	Metadata = collect.Metadata

	// TableStyle selects the associative-fact representation.
	TableStyle = emit.TableStyle

	// CollectionError reports a required fact whose source is unavailable.
	CollectionError = collect.CollectionError

	// DuplicateNameError reports colliding fact names.
	DuplicateNameError = facts.DuplicateNameError

	// UnsupportedValueError reports a fact that cannot be emitted.
	UnsupportedValueError = emit.UnsupportedValueError
)

// Fact kinds.
const (
	Timestamp   = facts.Timestamp
	VCSRevision = facts.VCSRevision
	VCSBranch   = facts.VCSBranch
	VCSDirty    = facts.VCSDirty
	Profile     = facts.Profile
	Flags       = facts.Flags
	GoVersion   = facts.GoVersion
	Platform    = facts.Platform
	Host        = facts.Host
	User        = facts.User
	Name        = facts.Name
	Version     = facts.Version
	Description = facts.Description
	Homepage    = facts.Homepage
	Authors     = facts.Authors
	Features    = facts.Features
	Cfg         = facts.Cfg
)

// Table styles.
const (
	TableMap   = emit.TableMap
	TablePairs = emit.TablePairs
)

// Kinds returns every known fact kind in canonical order.
func Kinds() []Kind { return facts.Kinds() }

// ParseKind converts a config string to a Kind.
func ParseKind(s string) (Kind, error) { return facts.ParseKind(s) }

// ParseTableStyle converts the config strings "map" and "pairs".
func ParseTableStyle(s string) (TableStyle, error) { return emit.ParseTableStyle(s) }

// GenerationError is the single error type surfaced by Render and
// Generate. It wraps the underlying CollectionError, DuplicateNameError,
// UnsupportedValueError or write failure, so callers can distinguish
// configuration and data problems from I/O problems with errors.As.
type GenerationError struct {
	Stage string // "collect", "render", "format" or "write"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("buildstamp %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Details configures which facts a generation run emits. The zero value is
// not usable; start from Default, All, RequireAll or None and chain the
// builder methods. Details is not safe for concurrent mutation, but
// distinct Details values are fully independent.
type Details struct {
	pkg    string
	style  emit.TableStyle
	meta   collect.Metadata
	dir    string
	reqs   []collect.Request
	extras []facts.Fact
}

// Default includes the facts most builds want: Timestamp, Version, Profile
// and Flags, all optional (absent sources fall back to defaults instead of
// failing).
func Default() *Details {
	return None().Include(Timestamp, Version, Profile, Flags)
}

// All includes every known fact kind, optional.
func All() *Details {
	return None().Include(facts.Kinds()...)
}

// RequireAll includes every known fact kind and requires each one: any
// unavailable source fails the generation.
func RequireAll() *Details {
	return None().Require(facts.Kinds()...)
}

// None starts from an empty selection.
func None() *Details {
	return &Details{}
}

// Include adds kinds as optional facts. A kind already selected keeps its
// position but becomes optional.
func (d *Details) Include(kinds ...Kind) *Details {
	for _, k := range kinds {
		d.setKind(k, false)
	}
	return d
}

// Require adds kinds as required facts: an unavailable source fails
// Generate with a CollectionError. A kind already selected keeps its
// position but becomes required.
func (d *Details) Require(kinds ...Kind) *Details {
	for _, k := range kinds {
		d.setKind(k, true)
	}
	return d
}

// Exclude removes kinds from the selection.
func (d *Details) Exclude(kinds ...Kind) *Details {
	for _, k := range kinds {
		for i, req := range d.reqs {
			if req.Kind == k {
				d.reqs = append(d.reqs[:i], d.reqs[i+1:]...)
				break
			}
		}
	}
	return d
}

func (d *Details) setKind(k Kind, required bool) {
	for i, req := range d.reqs {
		if req.Kind == k {
			d.reqs[i].Required = required
			return
		}
	}
	d.reqs = append(d.reqs, collect.Request{Kind: k, Required: required})
}

// Extra adds a custom string constant. Name must be a valid exported Go
// identifier; collisions with other facts are rejected at generation time.
func (d *Details) Extra(name, value string) *Details {
	d.extras = append(d.extras, facts.String(name, value))
	return d
}

// ExtraTable adds a custom string-keyed lookup table.
func (d *Details) ExtraTable(name string, entries map[string]string) *Details {
	d.extras = append(d.extras, facts.Table(name, entries))
	return d
}

// WithMetadata supplies project metadata for the Name, Version,
// Description, Homepage, Authors and Features facts.
func (d *Details) WithMetadata(m Metadata) *Details {
	d.meta = m
	return d
}

// WithPackage sets the package clause of the generated file.
// The default is "buildinfo".
func (d *Details) WithPackage(name string) *Details {
	d.pkg = name
	return d
}

// WithDir sets the directory whose git work tree supplies the VCS facts.
// The default is the current directory.
func (d *Details) WithDir(dir string) *Details {
	d.dir = dir
	return d
}

// WithTableStyle selects how associative facts render (TableMap or
// TablePairs).
func (d *Details) WithTableStyle(s TableStyle) *Details {
	d.style = s
	return d
}

// collectSet runs the collection pass: selected kinds in selection order,
// then extras in the order they were added.
func (d *Details) collectSet() (*facts.Set, error) {
	set, err := collect.Collect(d.reqs, collect.Options{Metadata: d.meta, Dir: d.dir})
	if err != nil {
		return nil, &GenerationError{Stage: "collect", Err: err}
	}
	for _, f := range d.extras {
		if err := set.Add(f); err != nil {
			return nil, &GenerationError{Stage: "collect", Err: err}
		}
	}
	return set, nil
}

// Render collects and renders the facts, writing the formatted generated
// source to w. Nothing touches the file system.
func (d *Details) Render(w io.Writer) error {
	src, err := d.source()
	if err != nil {
		return err
	}
	if _, err := w.Write(src); err != nil {
		return &GenerationError{Stage: "write", Err: err}
	}
	return nil
}

// Generate collects, renders and writes the generated source to path,
// overwriting any existing file. The write happens last, only after
// rendering and formatting succeed in full, so a failure never leaves a
// partial file behind.
func (d *Details) Generate(path string) error {
	src, err := d.source()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return &GenerationError{Stage: "write", Err: err}
	}
	return nil
}

func (d *Details) source() ([]byte, error) {
	set, err := d.collectSet()
	if err != nil {
		return nil, err
	}
	src, err := emit.Render(set, emit.Options{Package: d.pkg, TableStyle: d.style})
	if err != nil {
		return nil, &GenerationError{Stage: "render", Err: err}
	}
	out, err := emit.Format(src)
	if err != nil {
		return nil, &GenerationError{Stage: "format", Err: err}
	}
	return out, nil
}
