package main

import (
	"context"
	"os"

	"github.com/oaklang/crosscheck/internal/harness"
	"github.com/oaklang/crosscheck/internal/q/cli"
)

func main() {
	os.Exit(cli.Run(context.Background(), rootCommand(), cli.Options{Args: os.Args[1:]}))
}

func rootCommand() *cli.Command {
	cmd := &cli.Command{
		Name:  "crosscheck",
		Short: "Differential test harness for compiler backends",
		Long: `crosscheck compiles and runs one source file through a trusted reference
backend and a backend under test, captures the combined stdout/stderr of each
step, and prints a side-by-side diff table for every channel that diverges.
A fully matching run prints nothing.`,
		Example: `crosscheck -b llvm -r "lli ./main.bc" -f examples/fizzbuzz.ok -v`,
		Args:    cli.NoArgs,
	}

	flags := cmd.Flags()
	backend := flags.String("backend", 'b', "", "Backend identifier passed to the compiler under test")
	runCmd := flags.String("run", 'r', "", "Command executing the test backend's compiled artifact (split on spaces)")
	file := flags.String("file", 'f', "", "Source file to compile with both backends")
	verbose := flags.Bool("verbose", 'v', false, "Print every captured output as it is produced")
	configPath := flags.String("config", 0, "", "Config file overriding harness defaults (default crosscheck.toml)")

	cmd.Run = func(c *cli.Context) error {
		switch {
		case *backend == "":
			return cli.Usagef("missing required flag: -b/--backend")
		case *runCmd == "":
			return cli.Usagef("missing required flag: -r/--run")
		case *file == "":
			return cli.Usagef("missing required flag: -f/--file")
		}

		fileCfg, err := harness.LoadConfig(*configPath)
		if err != nil {
			return err
		}

		cfg := harness.Config{
			Backend:    *backend,
			RunCommand: *runCmd,
			SourceFile: *file,
			Verbose:    *verbose,
			Out:        c.Out,
		}
		fileCfg.Apply(&cfg)

		return harness.Run(c.Context, cfg)
	}
	return cmd
}
