package main

import (
	"os"
	"strings"
	"testing"
)

// helpText calls the help function and returns the output as a string.
func helpText() string {
	var sb strings.Builder
	printUsage(&sb)
	return sb.String()
}

// longHelpText returns the long help for a named command.
func longHelpText(name string) string {
	var sb strings.Builder
	printCommandHelp(&sb, name)
	return sb.String()
}

// TestHelpContainsAllCommands: the help listing is derived from the
// commands slice — every registered command name appears in it.
func TestHelpContainsAllCommands(t *testing.T) {
	help := helpText()
	for _, cmd := range commands {
		if !strings.Contains(help, cmd.name) {
			t.Errorf("help output missing command %q", cmd.name)
		}
		if !strings.Contains(help, cmd.short) {
			t.Errorf("help output missing short description for %q", cmd.short)
		}
	}
}

func TestHelpContainsUsageHeader(t *testing.T) {
	help := helpText()
	if !strings.Contains(help, "Usage:") {
		t.Error("help output missing 'Usage:' header")
	}
	if !strings.Contains(help, "buildstamp") {
		t.Error("help output missing program name 'buildstamp'")
	}
}

func TestLongHelpForKnownCommands(t *testing.T) {
	for _, cmd := range commands {
		t.Run(cmd.name, func(t *testing.T) {
			out := longHelpText(cmd.name)
			if out == "" {
				t.Fatalf("printCommandHelp(%q) returned empty output", cmd.name)
			}
			if !strings.Contains(out, cmd.usage) {
				t.Errorf("long help for %q missing usage line %q\ngot: %s", cmd.name, cmd.usage, out)
			}
		})
	}
}

func TestLongHelpUnknownCommand(t *testing.T) {
	out := longHelpText("no-such-command")
	if !strings.Contains(out, "unknown") && !strings.Contains(out, "no-such-command") {
		t.Errorf("expected unknown-command message, got: %s", out)
	}
}

// TestDispatchHelpFlag: --help / -h produce help without error.
func TestDispatchHelpFlag(t *testing.T) {
	for _, flag := range []string{"--help", "-h"} {
		t.Run(flag, func(t *testing.T) {
			if err := dispatch([]string{flag}); err != nil {
				t.Errorf("dispatch(%q) returned error: %v", flag, err)
			}
		})
	}
}

func TestDispatchNoArgs(t *testing.T) {
	if err := dispatch([]string{}); err != nil {
		t.Errorf("dispatch() with no args returned error: %v", err)
	}
}

func TestDispatchHelpSubcommand(t *testing.T) {
	for _, cmd := range commands {
		t.Run(cmd.name, func(t *testing.T) {
			if err := dispatch([]string{"help", cmd.name}); err != nil {
				t.Errorf("dispatch(help %q) returned error: %v", cmd.name, err)
			}
		})
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	err := dispatch([]string{"no-such-command-xyz"})
	if err == nil {
		t.Fatal("expected error for unknown command, got nil")
	}
	if !strings.Contains(err.Error(), "unknown") {
		t.Errorf("expected 'unknown' in error, got: %s", err)
	}
}

// TestDispatchGenerateMissingOutput: generate with no config and no -o must
// fail with a usage error — and must have reached the subcommand, not
// fallen through to "unknown command".
func TestDispatchGenerateMissingOutput(t *testing.T) {
	oldwd, wderr := os.Getwd()
	if wderr != nil {
		t.Fatal(wderr)
	}
	if cderr := os.Chdir(t.TempDir()); cderr != nil {
		t.Fatal(cderr)
	}
	t.Cleanup(func() { os.Chdir(oldwd) })
	err := dispatch([]string{"generate"})
	if err == nil {
		t.Fatal("expected error for generate without output path")
	}
	if strings.Contains(err.Error(), "unknown command") {
		t.Errorf("got 'unknown command' for known subcommand: %v", err)
	}
	if !strings.Contains(err.Error(), "output") {
		t.Errorf("expected output-path error, got: %v", err)
	}
}

func TestCommandsHaveRequiredFields(t *testing.T) {
	if len(commands) == 0 {
		t.Fatal("commands slice is empty — no subcommands registered")
	}
	for _, cmd := range commands {
		if cmd.name == "" {
			t.Error("command with empty name found")
		}
		if cmd.short == "" {
			t.Errorf("command %q has empty short description", cmd.name)
		}
		if cmd.usage == "" {
			t.Errorf("command %q has empty usage line", cmd.name)
		}
		if cmd.run == nil {
			t.Errorf("command %q has nil run func", cmd.name)
		}
	}
}
