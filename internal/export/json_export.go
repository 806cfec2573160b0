package export

import (
	"encoding/json"

	"github.com/omnibridge/omnibridge/internal/operator"
)

// JSONExporter renders a system report as structured JSON.
type JSONExporter struct{}

func (e *JSONExporter) Render(report operator.SystemReport) (string, error) {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
