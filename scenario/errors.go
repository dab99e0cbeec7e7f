package scenario

import (
	"fmt"
	"os"
	"strings"
)

// SchemaError reports a consumed file whose shape does not match its
// contract, for example a tabular file with renamed or reordered columns,
// or a template missing its substitution marker.
type SchemaError struct {
	Path     string   // offending file
	Expected []string // contract columns or markers
	Got      []string // what the file actually contained
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: schema mismatch: expected [%s], got [%s]",
		e.Path, strings.Join(e.Expected, "; "), strings.Join(e.Got, "; "))
}

// InvalidScenarioError reports a scenario field that failed coercion or
// validation, including congestion codes outside the known table.
type InvalidScenarioError struct {
	ScenarioID string
	Field      string
	Reason     string
}

func (e *InvalidScenarioError) Error() string {
	if e.ScenarioID == "" {
		return fmt.Sprintf("invalid scenario field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("scenario %q: invalid %s: %s", e.ScenarioID, e.Field, e.Reason)
}

// ArtifactNotFoundError reports a required input file absent at the moment
// a stage needs it.
type ArtifactNotFoundError struct {
	Path string
	Err  error
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("required artifact missing: %s", e.Path)
}

func (e *ArtifactNotFoundError) Unwrap() error { return e.Err }

// ExternalToolError reports a delegated conversion or simulation process
// that exited abnormally. ExitCode is -1 when the process was killed or
// never reported a status (timeouts).
type ExternalToolError struct {
	Tool     string
	ExitCode int
	Err      error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("external tool %s exited with status %d: %v", e.Tool, e.ExitCode, e.Err)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// RequireArtifact stats path and converts absence into *ArtifactNotFoundError.
func RequireArtifact(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &ArtifactNotFoundError{Path: path, Err: err}
	}
	return nil
}
