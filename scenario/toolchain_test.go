package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckToolchainEnv(t *testing.T) {
	t.Setenv(EnvToolchainRoot, "/opt/sumo")
	assert.NoError(t, CheckToolchainEnv())

	t.Setenv(EnvToolchainRoot, "")
	err := CheckToolchainEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvToolchainRoot)
}

func TestExecToolRunner_Success(t *testing.T) {
	runner := &ExecToolRunner{}
	assert.NoError(t, runner.Run(context.Background(), "", "true"))
}

func TestExecToolRunner_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	runner := &ExecToolRunner{}

	err := runner.Run(context.Background(), dir, "sh", "-c", "pwd > out.txt")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), filepath.Base(dir))
}

func TestExecToolRunner_NonZeroExit(t *testing.T) {
	runner := &ExecToolRunner{}
	err := runner.Run(context.Background(), "", "sh", "-c", "exit 3")

	var toolErr *ExternalToolError
	require.True(t, errors.As(err, &toolErr), "got %v, want *ExternalToolError", err)
	assert.Equal(t, "sh", toolErr.Tool)
	assert.Equal(t, 3, toolErr.ExitCode)
}

func TestExecToolRunner_TimeoutKillsProcess(t *testing.T) {
	runner := &ExecToolRunner{Timeout: 50 * time.Millisecond}
	start := time.Now()
	err := runner.Run(context.Background(), "", "sleep", "10")

	var toolErr *ExternalToolError
	require.True(t, errors.As(err, &toolErr), "got %v, want *ExternalToolError", err)
	assert.Equal(t, -1, toolErr.ExitCode)
	assert.Contains(t, toolErr.Error(), "timeout")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecToolRunner_MissingTool(t *testing.T) {
	runner := &ExecToolRunner{}
	err := runner.Run(context.Background(), "", "definitely-not-a-tool-on-path")

	var toolErr *ExternalToolError
	require.True(t, errors.As(err, &toolErr), "got %v, want *ExternalToolError", err)
	assert.Equal(t, -1, toolErr.ExitCode)
}
