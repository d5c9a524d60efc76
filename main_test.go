package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oaklang/crosscheck/internal/q/cli"
)

func runMain(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := cli.Run(context.Background(), rootCommand(), cli.Options{
		Args: args,
		Out:  &out,
		Err:  &errOut,
	})
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, body string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), mode))
	return path
}

// e2eFixture lays out a fake compiler, two artifacts, and a config file
// pointing the harness at them.
func e2eFixture(t *testing.T, refOutput, testOutput string) (configPath, testArtifact string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	dir := t.TempDir()

	compiler := writeFile(t, dir, "oak", "#!/bin/sh\nprintf 'compiled\\n'\n", 0o755)
	refArtifact := writeFile(t, dir, "main", "#!/bin/sh\nprintf '"+refOutput+"'\n", 0o755)
	testArtifact = writeFile(t, dir, "main-test", "#!/bin/sh\nprintf '"+testOutput+"'\n", 0o755)

	configPath = writeFile(t, dir, "crosscheck.toml",
		"compiler = \""+compiler+"\"\nartifact = \""+refArtifact+"\"\n", 0o644)
	return configPath, testArtifact
}

func TestCrosscheckSilentOnMatch(t *testing.T) {
	configPath, testArtifact := e2eFixture(t, `ok\n`, `ok\n`)

	code, out, errOut := runMain(t,
		"-b", "llvm",
		"-r", testArtifact,
		"-f", "prog.oak",
		"--config", configPath,
	)
	require.Equal(t, 0, code, "stderr: %s", errOut)
	require.Empty(t, out)
	require.Empty(t, errOut)
}

func TestCrosscheckReportsDivergence(t *testing.T) {
	configPath, testArtifact := e2eFixture(t, `1\n2\n3\n`, `1\n9\n3\n`)

	code, out, _ := runMain(t,
		"-b", "llvm",
		"-r", testArtifact,
		"-f", "prog.oak",
		"--config", configPath,
	)
	require.Equal(t, 0, code)
	require.Contains(t, out, "Test Failed!")
	require.Contains(t, out, "C run_stdout")
	require.Contains(t, out, " =/= ")
}

func TestCrosscheckRequiredFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing backend", args: []string{"-r", "./main", "-f", "x.ok"}, want: "-b/--backend"},
		{name: "missing run", args: []string{"-b", "llvm", "-f", "x.ok"}, want: "-r/--run"},
		{name: "missing file", args: []string{"-b", "llvm", "-r", "./main"}, want: "-f/--file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runMain(t, tt.args...)
			require.Equal(t, 2, code)
			require.Contains(t, errOut, "missing required flag: "+tt.want)
		})
	}
}

func TestCrosscheckRejectsPositionalArgs(t *testing.T) {
	code, _, errOut := runMain(t, "-b", "llvm", "-r", "./main", "-f", "x.ok", "stray")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "expected no args, got 1")
}

func TestCrosscheckMissingCompilerFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	dir := t.TempDir()
	configPath := writeFile(t, dir, "crosscheck.toml",
		"compiler = \""+filepath.Join(dir, "no-such-oak")+"\"\n", 0o644)

	code, _, errOut := runMain(t,
		"-b", "llvm",
		"-r", "./main-test",
		"-f", "prog.oak",
		"--config", configPath,
	)
	require.Equal(t, 1, code)
	require.True(t, strings.Contains(errOut, "no-such-oak"))
}

func TestCrosscheckHelp(t *testing.T) {
	code, out, _ := runMain(t, "--help")
	require.Equal(t, 0, code)
	require.Contains(t, out, "crosscheck - Differential test harness")
	require.Contains(t, out, "-b, --backend")
	require.Contains(t, out, "-v, --verbose")
}
