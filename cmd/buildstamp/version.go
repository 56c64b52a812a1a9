package main

// Linker-injected build metadata for the buildstamp binary itself,
// set via -ldflags, for example:
//
//	go build -ldflags "-X main.version=1.2.3 \
//	    -X main.commit=$(git rev-parse --short HEAD) \
//	    -X main.buildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Defaults apply during local development when ldflags are not set.

import (
	"fmt"
	"runtime"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func versionInfo() string {
	return fmt.Sprintf("buildstamp %s\n  commit:     %s\n  built:      %s\n  go version: %s\n  platform:   %s/%s",
		version, commit, buildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
