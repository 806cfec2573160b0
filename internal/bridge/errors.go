package bridge

import "fmt"

// ValidationError reports a rejected append: malformed entry identifier,
// a layer mismatch, or a full bounded layer. The target layer is left
// unchanged when one is returned.
type ValidationError struct {
	Layer  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bridge: layer %q: %s", e.Layer, e.Reason)
}

func validationErr(layer, format string, args ...any) error {
	return &ValidationError{Layer: layer, Reason: fmt.Sprintf(format, args...)}
}
