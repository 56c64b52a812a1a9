// Package facts defines the typed in-memory model of build facts: a Kind
// enumeration of collectible facts, the Fact variant type, and the ordered,
// duplicate-rejecting Set handed to the emitter.
package facts

import (
	"fmt"
	"sort"
)

// Kind identifies a collectible build fact. The string form is what appears
// in .buildstamp.yaml include/require/exclude lists.
type Kind string

const (
	// Timestamp is the wall-clock time of the generation run, in unix seconds.
	Timestamp Kind = "timestamp"

	// VCSRevision, VCSBranch and VCSDirty come from the local git work tree.
	VCSRevision Kind = "vcs-revision"
	VCSBranch   Kind = "vcs-branch"
	VCSDirty    Kind = "vcs-dirty"

	// Profile reads $BUILD_PROFILE; Flags reads $GOFLAGS.
	Profile Kind = "profile"
	Flags   Kind = "flags"

	// GoVersion and Platform describe the toolchain running the generator.
	GoVersion Kind = "go-version"
	Platform  Kind = "platform"

	// Host and User record where and by whom the generation ran.
	Host Kind = "host"
	User Kind = "user"

	// Project metadata, supplied by the caller (typically .buildstamp.yaml).
	Name        Kind = "name"
	Version     Kind = "version"
	Description Kind = "description"
	Homepage    Kind = "homepage"
	Authors     Kind = "authors"
	Features    Kind = "features"

	// Cfg is the associative target-configuration table (OS, ARCH, ...).
	Cfg Kind = "cfg"
)

// Kinds returns every known Kind in canonical order.
func Kinds() []Kind {
	return []Kind{
		Timestamp,
		VCSRevision, VCSBranch, VCSDirty,
		Profile, Flags,
		GoVersion, Platform,
		Host, User,
		Name, Version, Description, Homepage, Authors, Features,
		Cfg,
	}
}

// ParseKind converts a config string ("timestamp", "vcs-revision", ...) to a
// Kind. Unknown strings are an error, not a silent skip.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown fact kind %q", s)
}

// Type discriminates the value held by a Fact.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeBool
	TypeTimestamp
	TypeStringMap
	TypeStringList
)

// Fact is a single named, typed build fact. Exactly one value field is
// meaningful, selected by Type. Name must be a valid exported Go identifier;
// the emitter enforces this at render time.
type Fact struct {
	Name string
	Type Type

	Str  string
	Int  int64
	Bool bool
	Map  map[string]string
	List []string
}

// String constructs a string-valued fact.
func String(name, value string) Fact {
	return Fact{Name: name, Type: TypeString, Str: value}
}

// Int constructs an integer-valued fact.
func Int(name string, value int64) Fact {
	return Fact{Name: name, Type: TypeInt, Int: value}
}

// Bool constructs a boolean-valued fact.
func Bool(name string, value bool) Fact {
	return Fact{Name: name, Type: TypeBool, Bool: value}
}

// Stamp constructs a timestamp fact holding unix seconds.
func Stamp(name string, seconds int64) Fact {
	return Fact{Name: name, Type: TypeTimestamp, Int: seconds}
}

// Table constructs an associative fact. The entries map is copied so later
// caller mutation cannot change an already-built Set.
func Table(name string, entries map[string]string) Fact {
	m := make(map[string]string, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Fact{Name: name, Type: TypeStringMap, Map: m}
}

// List constructs a string-list fact, preserving element order.
func List(name string, values []string) Fact {
	return Fact{Name: name, Type: TypeStringList, List: append([]string(nil), values...)}
}

// Keys returns the map keys of an associative fact in sorted order.
// Nil for non-map facts.
func (f Fact) Keys() []string {
	if f.Type != TypeStringMap {
		return nil
	}
	keys := make([]string, 0, len(f.Map))
	for k := range f.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DuplicateNameError reports a rejected Add whose fact name was already
// present in the Set.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate fact name %q", e.Name)
}

// Set is an insertion-ordered collection of facts with unique names.
// The zero value is not usable; call NewSet.
type Set struct {
	facts []Fact
	names map[string]bool
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{names: make(map[string]bool)}
}

// Add appends a fact to the set. A name collision returns
// *DuplicateNameError and leaves the set unchanged (first fact retained).
func (s *Set) Add(f Fact) error {
	if s.names[f.Name] {
		return &DuplicateNameError{Name: f.Name}
	}
	s.names[f.Name] = true
	s.facts = append(s.facts, f)
	return nil
}

// Facts returns the facts in insertion order. The returned slice is a copy;
// the facts themselves share underlying maps/slices with the set.
func (s *Set) Facts() []Fact {
	return append([]Fact(nil), s.facts...)
}

// Len reports the number of facts in the set.
func (s *Set) Len() int {
	return len(s.facts)
}
