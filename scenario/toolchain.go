package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// EnvToolchainRoot must point at the traffic-simulator installation before
// any scenario compilation starts. Its absence aborts the whole batch.
const EnvToolchainRoot = "SUMO_HOME"

// CheckToolchainEnv verifies the toolchain environment variable is set.
func CheckToolchainEnv() error {
	if os.Getenv(EnvToolchainRoot) == "" {
		return fmt.Errorf("environment variable %s is not set; point it at the simulator toolchain root", EnvToolchainRoot)
	}
	return nil
}

// ToolRunner runs one external conversion or simulation tool to completion.
// dir is the working directory for the invocation ("" keeps the current
// one). Implementations must report abnormal exits as *ExternalToolError;
// stdout/stderr of the tool are passed through, never parsed.
type ToolRunner interface {
	Run(ctx context.Context, dir, tool string, args ...string) error
}

// ExecToolRunner invokes tools as subprocesses. A positive Timeout bounds
// each invocation; on expiry the process is killed and the call fails.
type ExecToolRunner struct {
	Timeout time.Duration
}

func (r *ExecToolRunner) Run(ctx context.Context, dir, tool string, args ...string) error {
	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, tool, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logrus.Debugf("exec: %s %s", tool, strings.Join(args, " "))
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return &ExternalToolError{Tool: tool, ExitCode: -1,
			Err: fmt.Errorf("killed after timeout %s", r.Timeout)}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExternalToolError{Tool: tool, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return &ExternalToolError{Tool: tool, ExitCode: -1, Err: err}
}
