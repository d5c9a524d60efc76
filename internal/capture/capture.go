// Package capture runs external commands and captures their output.
//
// Both output streams of the child process are redirected into a single buffer:
// everything the process writes, to stdout or stderr, lands in Output.Stdout in
// arrival order, and Output.Stderr is always empty. The harness compares the
// merged stream per channel, so separating the streams here would change what
// callers observe.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Output holds the captured streams of one completed process invocation.
//
// Stdout is the combined stdout+stderr capture; Stderr exists to mirror the
// two-channel contract of a process and is always empty by construction.
type Output struct {
	Stdout []byte
	Stderr []byte

	// ExitCode is the process exit status. It is diagnostic only; equality of
	// captured output never considers it.
	ExitCode int
}

// LaunchError reports that a command could not be started at all: the binary is
// missing, not executable, or otherwise unspawnable. It is distinct from a
// started process exiting nonzero, which is not an error here.
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("capture: launch %q: %v", e.Name, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Run invokes name with args and blocks until the process exits, draining its
// merged output as it goes. There is no timeout and no retry: one synchronous
// invocation per call.
//
// A process that starts and exits nonzero is a successful Run; the status is
// reported in Output.ExitCode. A process that cannot be started returns a
// *LaunchError.
func Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	// Assigning the same writer to both streams makes os/exec share one pipe,
	// so the merged capture is ordered and race-free.
	buf := new(bytes.Buffer)
	cmd.Stdout = buf
	cmd.Stderr = buf

	if err := cmd.Start(); err != nil {
		return Output{}, &LaunchError{Name: name, Err: err}
	}

	waitErr := cmd.Wait()
	out := Output{
		Stdout:   buf.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return out, fmt.Errorf("capture: wait for %q: %w", name, waitErr)
	}
	return out, nil
}
