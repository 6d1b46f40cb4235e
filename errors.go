package underlay

import "fmt"

// RenderError wraps an unexpected failure during layout, rendering, or
// compositing. Op names the operation that failed ("add text",
// "compose final", ...); the original cause is always preserved.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("underlay: %s failed: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// renderErr wraps err in a RenderError unless it is nil.
func renderErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RenderError{Op: op, Err: err}
}
