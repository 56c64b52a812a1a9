// Package emit renders a fact set into a self-contained block of Go
// declarations: one declaration per fact, in set order, behind a stable
// preamble so the output can live verbatim in the consuming source tree.
//
// Rendering is pure — it reads nothing from the environment — so the same
// set always produces byte-identical output.
package emit

import (
	"bytes"
	"fmt"
	"go/token"
	"strconv"

	"golang.org/x/tools/imports"

	"buildstamp/internal/facts"
)

// TableStyle selects how associative facts are rendered.
type TableStyle int

const (
	// TableMap emits a map literal — the language's built-in constant-time
	// string-keyed lookup construction, no extra runtime support needed.
	TableMap TableStyle = iota

	// TablePairs emits an ordered slice of key/value pairs plus a
	// linear-scan lookup helper: slower, but usable where a composite
	// literal per entry is preferred over a map (fully dependency-free).
	TablePairs
)

// ParseTableStyle converts the config strings "map" and "pairs".
func ParseTableStyle(s string) (TableStyle, error) {
	switch s {
	case "", "map":
		return TableMap, nil
	case "pairs":
		return TablePairs, nil
	default:
		return 0, fmt.Errorf("unknown table style %q (want \"map\" or \"pairs\")", s)
	}
}

// Options configures rendering.
type Options struct {
	// Package is the package clause of the generated file.
	// Empty means "buildinfo".
	Package string

	// TableStyle selects the associative-fact representation.
	TableStyle TableStyle
}

// UnsupportedValueError reports a fact that cannot be expressed as a Go
// declaration — in practice, a name that is not a valid exported
// identifier. String values never trigger it: quoting is lossless for
// quotes, backslashes, and arbitrary non-UTF-8 bytes.
type UnsupportedValueError struct {
	Name   string
	Reason string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("fact %q cannot be emitted: %s", e.Name, e.Reason)
}

// Render produces the generated source for set. Declarations appear in set
// insertion order; map keys within a table are sorted. The output is valid
// Go but not gofmt-canonical; Format finishes the job.
func Render(set *facts.Set, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "buildinfo"
	}
	if !token.IsIdentifier(pkg) {
		return nil, &UnsupportedValueError{Name: pkg, Reason: "not a valid package name"}
	}

	var buf bytes.Buffer
	buf.WriteString("// Code generated by buildstamp. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n", pkg)

	pairTypeEmitted := false
	for _, f := range set.Facts() {
		if err := checkName(f.Name); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
		switch f.Type {
		case facts.TypeString:
			fmt.Fprintf(&buf, "const %s = %s\n", f.Name, strconv.Quote(f.Str))
		case facts.TypeInt:
			fmt.Fprintf(&buf, "const %s = %d\n", f.Name, f.Int)
		case facts.TypeBool:
			fmt.Fprintf(&buf, "const %s = %t\n", f.Name, f.Bool)
		case facts.TypeTimestamp:
			fmt.Fprintf(&buf, "const %s int64 = %d\n", f.Name, f.Int)
		case facts.TypeStringList:
			writeList(&buf, f)
		case facts.TypeStringMap:
			if opts.TableStyle == TablePairs && !pairTypeEmitted {
				writePairType(&buf)
				buf.WriteByte('\n')
				pairTypeEmitted = true
			}
			writeTable(&buf, f, opts.TableStyle)
		default:
			return nil, &UnsupportedValueError{Name: f.Name, Reason: fmt.Sprintf("unknown fact type %d", f.Type)}
		}
	}
	return buf.Bytes(), nil
}

// checkName enforces the fact-name invariant: a valid, exported Go
// identifier.
func checkName(name string) error {
	if !token.IsIdentifier(name) {
		return &UnsupportedValueError{Name: name, Reason: "not a valid Go identifier"}
	}
	if !token.IsExported(name) {
		return &UnsupportedValueError{Name: name, Reason: "identifier is not exported"}
	}
	return nil
}

func writeList(buf *bytes.Buffer, f facts.Fact) {
	if len(f.List) == 0 {
		fmt.Fprintf(buf, "var %s = []string{}\n", f.Name)
		return
	}
	fmt.Fprintf(buf, "var %s = []string{\n", f.Name)
	for _, v := range f.List {
		fmt.Fprintf(buf, "\t%s,\n", strconv.Quote(v))
	}
	buf.WriteString("}\n")
}

func writePairType(buf *bytes.Buffer) {
	buf.WriteString("// Pair is one entry of a pairs-style lookup table.\n")
	buf.WriteString("type Pair struct {\n\tKey   string\n\tValue string\n}\n")
}

func writeTable(buf *bytes.Buffer, f facts.Fact, style TableStyle) {
	keys := f.Keys()
	switch style {
	case TablePairs:
		if len(keys) == 0 {
			fmt.Fprintf(buf, "var %s = []Pair{}\n", f.Name)
		} else {
			fmt.Fprintf(buf, "var %s = []Pair{\n", f.Name)
			for _, k := range keys {
				fmt.Fprintf(buf, "\t{%s, %s},\n", strconv.Quote(k), strconv.Quote(f.Map[k]))
			}
			buf.WriteString("}\n")
		}
		buf.WriteByte('\n')
		fmt.Fprintf(buf, "// %sLookup returns the value for key, scanning %s in order.\n", f.Name, f.Name)
		fmt.Fprintf(buf, "func %sLookup(key string) (string, bool) {\n", f.Name)
		fmt.Fprintf(buf, "\tfor _, p := range %s {\n", f.Name)
		buf.WriteString("\t\tif p.Key == key {\n\t\t\treturn p.Value, true\n\t\t}\n\t}\n")
		buf.WriteString("\treturn \"\", false\n}\n")
	default:
		if len(keys) == 0 {
			fmt.Fprintf(buf, "var %s = map[string]string{}\n", f.Name)
			return
		}
		fmt.Fprintf(buf, "var %s = map[string]string{\n", f.Name)
		for _, k := range keys {
			fmt.Fprintf(buf, "\t%s: %s,\n", strconv.Quote(k), strconv.Quote(f.Map[k]))
		}
		buf.WriteString("}\n")
	}
}

// Format runs the rendered source through goimports-style processing, which
// both canonicalizes formatting and proves the output parses. A failure
// here means the renderer produced invalid Go.
func Format(src []byte) ([]byte, error) {
	out, err := imports.Process("buildstamp_generated.go", src, nil)
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return out, nil
}
