package collect

// git.go — version-control fact sources, read by shelling out to git
// against the local work tree. All helpers treat "not a git repository"
// (or a missing git binary) as an unavailable source, reported via error.

import (
	"fmt"
	"os/exec"
	"strings"
)

// gitOutput runs git with the given args in dir and returns trimmed stdout.
func gitOutput(dir string, args ...string) (string, error) {
	full := append([]string{"-C", dir}, args...)
	out, err := exec.Command("git", full...).Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// insideWorkTree reports whether dir is inside a git work tree.
func insideWorkTree(dir string) error {
	out, err := gitOutput(dir, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return err
	}
	if out != "true" {
		return fmt.Errorf("not inside a git work tree")
	}
	return nil
}

// gitRevision returns the full HEAD commit hash.
func gitRevision(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := insideWorkTree(dir); err != nil {
		return "", err
	}
	return gitOutput(dir, "rev-parse", "HEAD")
}

// gitBranch returns the current branch name ("HEAD" when detached).
func gitBranch(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := insideWorkTree(dir); err != nil {
		return "", err
	}
	return gitOutput(dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// gitDirty reports whether the work tree has uncommitted changes.
func gitDirty(dir string) (bool, error) {
	if dir == "" {
		dir = "."
	}
	if err := insideWorkTree(dir); err != nil {
		return false, err
	}
	out, err := gitOutput(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}
