package operator

import "fmt"

// IngestionError is a connector-level failure. It is isolated to the
// failing connector: the cycle records it as an alert and continues.
type IngestionError struct {
	Connector string
	Source    string
	Err       error
}

func (e *IngestionError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("operator: connector %q (source %s): %v", e.Connector, e.Source, e.Err)
	}
	return fmt.Sprintf("operator: connector %q: %v", e.Connector, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// ConfigurationError is fatal and raised before any ingestion begins,
// e.g. two connectors declaring the same domain.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "operator: configuration: " + e.Reason
}
