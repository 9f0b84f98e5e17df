package core

import (
	"fmt"
)

// EngineError indicates the underlying correction model call failed.
// The gateway translates it into a wire-level error event; it is not retried.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("correction engine: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// FormalizationError indicates the LLM rewrite call failed.
type FormalizationError struct {
	Err error
}

func (e *FormalizationError) Error() string {
	return fmt.Sprintf("formalization: %v", e.Err)
}

func (e *FormalizationError) Unwrap() error {
	return e.Err
}
