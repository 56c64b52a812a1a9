// Command buildstamp generates a Go source file of build-time metadata,
// driven by .buildstamp.yaml. It is meant to run from a go:generate line or
// a Makefile target, immediately before the real build.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"buildstamp/internal/project"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

var commands = []command{
	{
		name:  "init",
		short: "Create a .buildstamp.yaml interactively",
		usage: "buildstamp init",
		long: `Create a .buildstamp.yaml in the current directory.

Prompts for the project name, version, output path and generated package
name. Errors if the file already exists.
`,
		run: runInit,
	},
	{
		name:  "generate",
		short: "Generate the build metadata source file",
		usage: "buildstamp generate [-c config] [-o output]",
		long: `Collect the configured build facts and write the generated file.

Reads .buildstamp.yaml (or the -c path) for the fact selection, project
metadata and output path; -o overrides the configured output. Without a
config file the default fact set is generated.
`,
		run: runGenerate,
	},
	{
		name:  "render",
		short: "Print the generated source to stdout",
		usage: "buildstamp render [-c config]",
		long: `Collect the configured build facts and print the generated source
to stdout without writing any file.
`,
		run: runRender,
	},
	{
		name:  "version",
		short: "Print buildstamp version information",
		usage: "buildstamp version",
		long: `Print the version, commit and build date of this buildstamp binary.
`,
		run: runVersion,
	},
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "buildstamp — build-time metadata source generation\n\n")
	fmt.Fprintf(w, "Usage:\n  buildstamp <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'buildstamp help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "buildstamp: unknown command %q\n\nRun 'buildstamp help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(os.Stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(os.Stdout, args[1])
		} else {
			printUsage(os.Stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'buildstamp help' for usage.", args[0])
}

// ---------------------------------------------------------------------------
// generate / render
// ---------------------------------------------------------------------------

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	configPath := fs.String("c", project.DefaultFile, "config file path")
	output := fs.String("o", "", "output path (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := project.Load(*configPath)
	if err != nil {
		return err
	}
	details, out, err := detailsFromConfig(cfg)
	if err != nil {
		return err
	}
	if *output != "" {
		out = *output
	}
	if out == "" {
		return fmt.Errorf("no output path: set 'output' in %s or pass -o", *configPath)
	}

	if err := details.Generate(out); err != nil {
		return err
	}
	log.Info("generated build metadata", "output", out)
	return nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	configPath := fs.String("c", project.DefaultFile, "config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := project.Load(*configPath)
	if err != nil {
		return err
	}
	details, _, err := detailsFromConfig(cfg)
	if err != nil {
		return err
	}
	return details.Render(os.Stdout)
}

// ---------------------------------------------------------------------------
// init
// ---------------------------------------------------------------------------

func runInit(args []string) error {
	if _, err := os.Stat(project.DefaultFile); err == nil {
		return fmt.Errorf("%s already exists", project.DefaultFile)
	}

	answers, err := promptQuestions(initQuestions)
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	cfg := configFromAnswers(answers)
	if err := project.Save(project.DefaultFile, cfg); err != nil {
		return err
	}
	log.Info("wrote config", "path", project.DefaultFile)
	return nil
}

func runVersion(args []string) error {
	fmt.Println(versionInfo())
	return nil
}

func main() {
	log.SetReportTimestamp(false)
	if err := dispatch(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
