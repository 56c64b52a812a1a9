// Package collect gathers raw build facts from the calling environment at
// generation time: the wall clock, git metadata, build environment
// variables, the running toolchain, and caller-supplied project metadata.
//
// Collection is a single pass with no caching; re-invoking legitimately
// yields a fresh timestamp. The one documented limitation is that the
// timestamp reflects generation time and refreshes only when the generation
// step actually reruns.
package collect

import (
	"fmt"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"time"

	"buildstamp/internal/facts"
)

// Metadata carries project-level facts that have no environment source of
// their own (the Go stand-in for a package manifest). An empty field means
// the corresponding fact source is unavailable.
type Metadata struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	Authors     []string
	Features    []string
}

// Options configures a collection pass. The zero value reads the real
// environment in the current directory.
type Options struct {
	Metadata Metadata

	// Dir is where git commands run. Empty means the current directory.
	Dir string

	// Env and Now exist so tests can substitute the environment and clock.
	// Nil means os.Getenv / time.Now.
	Env func(string) string
	Now func() time.Time
}

func (o Options) getenv(key string) string {
	if o.Env != nil {
		return o.Env(key)
	}
	return os.Getenv(key)
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Request names one fact kind to collect. Required requests fail the whole
// pass when their source is unavailable; optional requests fall back to a
// documented default instead.
type Request struct {
	Kind     facts.Kind
	Required bool
}

// CollectionError reports a required fact whose source was unavailable or
// unreadable. It propagates to the caller rather than silently omitting the
// fact, since the caller explicitly opted in.
type CollectionError struct {
	Kind   facts.Kind
	Source string
	Err    error
}

func (e *CollectionError) Error() string {
	msg := fmt.Sprintf("collect %s: source %s unavailable", e.Kind, e.Source)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CollectionError) Unwrap() error { return e.Err }

// unknown is the fallback value for optional string facts whose source is
// absent, matching the convention of ldflags-stamped version blocks.
const unknown = "unknown"

// Collect resolves each requested kind against the environment, in request
// order, and returns the resulting fact set. Duplicate kinds surface as
// *facts.DuplicateNameError from the set itself.
func Collect(reqs []Request, opts Options) (*facts.Set, error) {
	set := facts.NewSet()
	for _, req := range reqs {
		f, ok, err := resolve(req.Kind, opts)
		if err != nil && req.Required {
			return nil, &CollectionError{Kind: req.Kind, Source: sourceOf(req.Kind), Err: err}
		}
		if !ok {
			if req.Required {
				return nil, &CollectionError{Kind: req.Kind, Source: sourceOf(req.Kind), Err: err}
			}
			f = fallback(req.Kind)
		}
		if err := set.Add(f); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// sourceOf names the environment source of a kind, for error messages.
func sourceOf(kind facts.Kind) string {
	switch kind {
	case facts.Timestamp:
		return "system clock"
	case facts.VCSRevision, facts.VCSBranch, facts.VCSDirty:
		return "git work tree"
	case facts.Profile:
		return "$BUILD_PROFILE"
	case facts.Flags:
		return "$GOFLAGS"
	case facts.GoVersion, facts.Platform, facts.Cfg:
		return "toolchain"
	case facts.Host:
		return "hostname"
	case facts.User:
		return "current user"
	default:
		return "project metadata"
	}
}

// resolve reads one fact from the environment. ok is false when the source
// is unavailable; err carries the cause when there is one.
func resolve(kind facts.Kind, opts Options) (facts.Fact, bool, error) {
	switch kind {
	case facts.Timestamp:
		return facts.Stamp("Timestamp", opts.now().Unix()), true, nil

	case facts.VCSRevision:
		rev, err := gitRevision(opts.Dir)
		if err != nil {
			return facts.Fact{}, false, err
		}
		return facts.String("VCSRevision", rev), true, nil

	case facts.VCSBranch:
		branch, err := gitBranch(opts.Dir)
		if err != nil {
			return facts.Fact{}, false, err
		}
		return facts.String("VCSBranch", branch), true, nil

	case facts.VCSDirty:
		dirty, err := gitDirty(opts.Dir)
		if err != nil {
			return facts.Fact{}, false, err
		}
		return facts.Bool("VCSDirty", dirty), true, nil

	case facts.Profile:
		v := opts.getenv("BUILD_PROFILE")
		return facts.String("Profile", v), v != "", nil

	case facts.Flags:
		v := opts.getenv("GOFLAGS")
		return facts.String("Flags", v), v != "", nil

	case facts.GoVersion:
		return facts.String("GoVersion", runtime.Version()), true, nil

	case facts.Platform:
		return facts.String("Platform", runtime.GOOS+"/"+runtime.GOARCH), true, nil

	case facts.Host:
		host, err := os.Hostname()
		if err != nil {
			return facts.Fact{}, false, err
		}
		return facts.String("Host", host), true, nil

	case facts.User:
		name := username(opts)
		return facts.String("User", name), name != "", nil

	case facts.Name:
		v := opts.Metadata.Name
		return facts.String("Name", v), v != "", nil

	case facts.Version:
		v := opts.Metadata.Version
		return facts.String("Version", v), v != "", nil

	case facts.Description:
		v := opts.Metadata.Description
		return facts.String("Description", v), v != "", nil

	case facts.Homepage:
		v := opts.Metadata.Homepage
		return facts.String("Homepage", v), v != "", nil

	case facts.Authors:
		v := opts.Metadata.Authors
		return facts.List("Authors", v), len(v) > 0, nil

	case facts.Features:
		v := opts.Metadata.Features
		return facts.List("Features", v), len(v) > 0, nil

	case facts.Cfg:
		return facts.Table("Cfg", cfgTable()), true, nil

	default:
		return facts.Fact{}, false, fmt.Errorf("unknown fact kind %q", kind)
	}
}

// fallback is the default fact emitted for an optional kind whose source is
// absent. Strings get "unknown" (Flags gets the empty string, since an
// empty flag set is itself meaningful), booleans false, lists and tables
// stay empty.
func fallback(kind facts.Kind) facts.Fact {
	switch kind {
	case facts.VCSRevision:
		return facts.String("VCSRevision", unknown)
	case facts.VCSBranch:
		return facts.String("VCSBranch", unknown)
	case facts.VCSDirty:
		return facts.Bool("VCSDirty", false)
	case facts.Profile:
		return facts.String("Profile", unknown)
	case facts.Flags:
		return facts.String("Flags", "")
	case facts.Host:
		return facts.String("Host", unknown)
	case facts.User:
		return facts.String("User", unknown)
	case facts.Name:
		return facts.String("Name", unknown)
	case facts.Version:
		return facts.String("Version", unknown)
	case facts.Description:
		return facts.String("Description", "")
	case facts.Homepage:
		return facts.String("Homepage", "")
	case facts.Authors:
		return facts.List("Authors", nil)
	case facts.Features:
		return facts.List("Features", nil)
	default:
		// Timestamp, GoVersion, Platform and Cfg are always available and
		// never reach here.
		return facts.String(string(kind), "")
	}
}

// username resolves the building user: os/user first, $USER as a fallback
// for static binaries without cgo user lookup.
func username(opts Options) string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return opts.getenv("USER")
}

// cfgTable describes the target configuration of the running toolchain, the
// associative counterpart of Platform.
func cfgTable() map[string]string {
	family := "unix"
	switch runtime.GOOS {
	case "windows":
		family = "windows"
	case "js", "wasip1":
		family = "wasm"
	}
	return map[string]string{
		"OS":            runtime.GOOS,
		"ARCH":          runtime.GOARCH,
		"FAMILY":        family,
		"POINTER_WIDTH": strconv.Itoa(strconv.IntSize),
	}
}
