package pipeline

import (
	"errors"
	"fmt"
)

// errEmptyOutput marks a completion that sanitized down to nothing. An empty
// result is a failure, never a written file.
var errEmptyOutput = errors.New("model returned empty output")

// stageError tags a per-candidate failure with the stage that caused it, so
// skip logs name the failing stage.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.stage, e.err)
}

func (e *stageError) Unwrap() error { return e.err }
