package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// writeScript writes an executable shell script into a temp dir and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestRunCapturesStdout(t *testing.T) {
	requireUnix(t)

	out, err := Run(context.Background(), writeScript(t, `printf 'hello\n'`))
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(out.Stdout))
	require.Empty(t, out.Stderr)
	require.Equal(t, 0, out.ExitCode)
}

func TestRunMergesStderrIntoStdout(t *testing.T) {
	requireUnix(t)

	script := writeScript(t, `printf 'out1\n'
printf 'err1\n' >&2
printf 'out2\n'`)

	out, err := Run(context.Background(), script)
	require.NoError(t, err)

	// One pipe carries both streams, so arrival order is preserved and the
	// stderr slot stays empty.
	require.Equal(t, "out1\nerr1\nout2\n", string(out.Stdout))
	require.Empty(t, out.Stderr)
}

func TestRunNonzeroExitIsNotAnError(t *testing.T) {
	requireUnix(t)

	out, err := Run(context.Background(), writeScript(t, `printf 'doomed\n'
exit 3`))
	require.NoError(t, err)
	require.Equal(t, "doomed\n", string(out.Stdout))
	require.Equal(t, 3, out.ExitCode)
}

func TestRunMissingBinaryIsLaunchError(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	require.Contains(t, launchErr.Error(), "does-not-exist")
}

func TestRunPassesArguments(t *testing.T) {
	requireUnix(t)

	script := writeScript(t, `printf '%s|%s\n' "$1" "$2"`)
	out, err := Run(context.Background(), script, "first", "second arg")
	require.NoError(t, err)
	require.Equal(t, "first|second arg\n", string(out.Stdout))
}
