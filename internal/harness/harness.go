// Package harness sequences a differential backend test: compile and run one
// source file through a trusted reference backend and a backend under test,
// then compare the captured output of every step.
package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/oaklang/crosscheck/internal/capture"
	"github.com/oaklang/crosscheck/internal/difftab"
)

// Defaults for the collaborator contract with the compiler under test. A
// config file may relocate any of them; the CLI flags never do.
const (
	DefaultCompiler   = "./target/debug/oak"
	DefaultRefBackend = "-c"
	DefaultArtifact   = "./main"
	DefaultRefLabel   = "C"
)

// Config describes one differential test run.
type Config struct {
	Backend    string // backend identifier under test, passed to the compiler
	RunCommand string // command executing the test backend's artifact, split on single spaces
	SourceFile string // source file both backends compile
	Verbose    bool   // print every captured output as it is produced

	// Collaborator overrides; zero values fall back to the Default* constants.
	Compiler   string
	RefBackend string
	Artifact   string
	RefLabel   string

	// Out receives all printed output. Defaults to os.Stdout.
	Out io.Writer
}

// Channel is one named pair of captured byte streams, reference vs. test.
type Channel struct {
	Label string
	Ref   []byte
	Test  []byte
}

// Equal reports byte-exact equality of the channel's two sides. No
// normalization of any kind: any differing byte fails the channel.
func (c Channel) Equal() bool {
	return bytes.Equal(c.Ref, c.Test)
}

var (
	stepBanner = color.New(color.FgCyan)
	failBanner = color.New(color.FgRed, color.Bold)
)

// Run executes the four steps in order (compile reference, run reference,
// compile test, run test), then compares all four channels and prints a
// "Test Failed!" block with a diff table for each unequal one. A fully matching
// run prints nothing.
//
// All four channels are checked even after one fails. The returned error is
// nil for any comparison outcome; it is non-nil only for unrecoverable faults
// (a command that cannot be launched, or a stream that cannot be decoded for
// rendering).
func Run(ctx context.Context, cfg Config) error {
	compiler := cfg.Compiler
	if compiler == "" {
		compiler = DefaultCompiler
	}
	refBackend := cfg.RefBackend
	if refBackend == "" {
		refBackend = DefaultRefBackend
	}
	artifact := cfg.Artifact
	if artifact == "" {
		artifact = DefaultArtifact
	}
	refLabel := cfg.RefLabel
	if refLabel == "" {
		refLabel = DefaultRefLabel
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	step := func(banner string, name string, args ...string) (capture.Output, error) {
		if cfg.Verbose {
			stepBanner.Fprintln(out, banner)
		}
		captured, err := capture.Run(ctx, name, args...)
		if err != nil {
			return capture.Output{}, err
		}
		if cfg.Verbose {
			fmt.Fprintln(out, string(captured.Stdout))
			if captured.ExitCode != 0 {
				fmt.Fprintf(out, "(exit status %d)\n", captured.ExitCode)
			}
		}
		return captured, nil
	}

	refCompile, err := step(
		fmt.Sprintf("Compiling %s with %s backend...", cfg.SourceFile, refLabel),
		compiler, refBackend, "c", cfg.SourceFile,
	)
	if err != nil {
		return err
	}

	refRun, err := step(
		fmt.Sprintf("Running %s with %s backend...", cfg.SourceFile, refLabel),
		artifact,
	)
	if err != nil {
		return err
	}

	testCompile, err := step(
		fmt.Sprintf("Compiling %s with test backend...", cfg.SourceFile),
		compiler, cfg.Backend, "c", cfg.SourceFile,
	)
	if err != nil {
		return err
	}

	runArgs := strings.Split(cfg.RunCommand, " ")
	testRun, err := step(
		fmt.Sprintf("Running %s with test backend...", cfg.SourceFile),
		runArgs[0], runArgs[1:]...,
	)
	if err != nil {
		return err
	}

	channels := []Channel{
		{Label: "compile_stdout", Ref: refCompile.Stdout, Test: testCompile.Stdout},
		{Label: "compile_stderr", Ref: refCompile.Stderr, Test: testCompile.Stderr},
		{Label: "run_stdout", Ref: refRun.Stdout, Test: testRun.Stdout},
		{Label: "run_stderr", Ref: refRun.Stderr, Test: testRun.Stderr},
	}

	renderer := difftab.Renderer{RefLabel: refLabel}
	for _, ch := range channels {
		if ch.Equal() {
			continue
		}
		failBanner.Fprintln(out, "Test Failed!")
		table, err := renderer.Render(ch.Ref, ch.Test, ch.Label)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, table)
	}
	return nil
}
