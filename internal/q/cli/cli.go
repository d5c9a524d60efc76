// Package cli runs a single-command CLI program: typed flags with shorthand
// runes, -h/--help, usage errors with exit code 2, and injectable I/O for
// tests. Flags and positional args may be interleaved in any order.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// RunFunc is the command handler.
type RunFunc func(c *Context) error

// ArgsFunc validates positional args. It should return a UsageError (or any
// ExitCoder with code 2) for user-facing usage mistakes.
type ArgsFunc func(args []string) error

// Command defines the CLI program.
type Command struct {
	// Name is the program name shown in usage and help output.
	Name string

	Short   string
	Long    string
	Example string

	Args ArgsFunc // optional
	Run  RunFunc  // required

	flags *FlagSet
}

// Flags returns the command's flag set, creating it on first use.
func (c *Command) Flags() *FlagSet {
	if c.flags == nil {
		c.flags = newFlagSet()
	}
	return c.flags
}

// Options configure Run.
type Options struct {
	// Args is the argv excluding the program name (typically os.Args[1:]).
	Args []string

	// Out/Err override standard I/O. If nil, defaults are used.
	Out io.Writer
	Err io.Writer
}

// Context is passed to the command handler.
//
// Positional args are in Args. Flag values are read via variables bound at
// command construction time (e.g. fs.String(...)).
type Context struct {
	context.Context

	Command *Command
	Args    []string

	Out io.Writer
	Err io.Writer
}

// Run executes cmd as a CLI program and returns a process exit code.
func Run(ctx context.Context, cmd *Command, opts Options) int {
	if cmd == nil {
		panic("cli: Run called with nil command")
	}
	if cmd.Name == "" {
		panic("cli: Run called with cmd.Name empty")
	}
	if cmd.Run == nil {
		panic("cli: Run called with cmd.Run nil")
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := opts.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	args, parseErr := parseArgv(cmd, opts.Args, out)
	if parseErr != nil {
		if errors.Is(parseErr, errHelpPrinted) {
			return 0
		}
		printUsageError(cmd, parseErr, errOut)
		return 2
	}

	if cmd.Args != nil {
		if err := cmd.Args(args); err != nil {
			return exitForError(cmd, err, errOut, true)
		}
	}

	c := &Context{
		Context: ctx,
		Command: cmd,
		Args:    args,
		Out:     out,
		Err:     errOut,
	}
	if err := cmd.Run(c); err != nil {
		return exitForError(cmd, err, errOut, false)
	}
	return 0
}

var errHelpPrinted = errors.New("help printed")

func parseArgv(cmd *Command, argv []string, out io.Writer) ([]string, error) {
	flags := cmd.Flags()
	parsingEnded := false
	var positional []string

	for i := 0; i < len(argv); i++ {
		token := argv[i]

		if parsingEnded {
			positional = append(positional, argv[i:]...)
			break
		}

		if token == "--" {
			parsingEnded = true
			continue
		}

		if token == "-h" || token == "--help" {
			writeHelp(out, cmd)
			return nil, errHelpPrinted
		}

		if isFlagToken(token) {
			consumed, err := flags.parseToken(token, argv, i)
			if err != nil {
				return nil, err
			}
			i += consumed
			continue
		}

		positional = append(positional, token)
	}
	return positional, nil
}

func isFlagToken(token string) bool {
	return strings.HasPrefix(token, "-") && token != "-" // "-" is a valid positional arg.
}

func exitForError(cmd *Command, err error, errOut io.Writer, usageByDefault bool) int {
	var ec ExitCoder
	if errors.As(err, &ec) {
		code := ec.ExitCode()
		if code == 2 {
			printUsageError(cmd, err, errOut)
			return 2
		}
		if code == 0 {
			return 0
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
		}
		return code
	}

	if usageByDefault {
		printUsageError(cmd, err, errOut)
		return 2
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(errOut, msg)
	}
	return 1
}

func printUsageError(cmd *Command, err error, errOut io.Writer) {
	if err != nil && !errors.Is(err, errHelpPrinted) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
			fmt.Fprintln(errOut)
		}
	}
	writeHelp(errOut, cmd)
}
