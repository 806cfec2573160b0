package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/omnibridge/omnibridge/internal/advisor"
	"github.com/omnibridge/omnibridge/internal/bridge"
	"github.com/omnibridge/omnibridge/internal/config"
	"github.com/omnibridge/omnibridge/internal/operator"
)

// findRoot locates the workspace root: the nearest ancestor of the working
// directory that contains a .omnibridge/ directory, else the cwd itself.
func findRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	dir, _ := filepath.Abs(cwd)
	for {
		if _, err := os.Stat(filepath.Join(dir, ".omnibridge")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Abs(cwd)
}

// ensureInitialized checks that the workspace has been initialized.
func ensureInitialized(root string) (string, error) {
	dbPath := config.WorkspaceDBPath(root)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("OmniBridge not initialized. Run `omnibridge init` first")
	}
	return dbPath, nil
}

// buildCore assembles the bridge, advisor, and connectors for a workspace.
func buildCore(root string, opts ...operator.Option) (*operator.Core, config.GlobalConfig, error) {
	gcfg, err := config.Load(root)
	if err != nil {
		return nil, gcfg, err
	}

	var apiKey string
	switch gcfg.DefaultAdvisor {
	case advisor.ProviderClaude:
		apiKey = gcfg.Keys.Anthropic
	case advisor.ProviderOpenAI:
		apiKey = gcfg.Keys.OpenAI
	}
	adv, err := advisor.New(gcfg.DefaultAdvisor, apiKey, "")
	if err != nil {
		return nil, gcfg, err
	}

	b := bridge.New(bridge.Options{LayerCapacity: gcfg.Layers.DefaultCapacity})
	if gcfg.Layers.AlertCapacity > 0 {
		// Pre-register the alert layer so its bound comes from config,
		// not the node default.
		if _, err := b.RegisterBoundedLayer(operator.AlertLayer, gcfg.Layers.AlertCapacity); err != nil {
			return nil, gcfg, err
		}
	}

	connectors := operator.DefaultConnectors(operator.DefaultConnectorOptions{
		EvidenceDir:    resolveDir(root, gcfg.Connectors.EvidenceDir),
		DocumentsDir:   resolveDir(root, gcfg.Connectors.DocumentsDir),
		TranscriptsDir: resolveDir(root, gcfg.Connectors.TranscriptsDir),
		Notes:          gcfg.Connectors.Notes,
	})

	core, err := operator.New(b, adv, connectors, opts...)
	if err != nil {
		return nil, gcfg, err
	}
	return core, gcfg, nil
}

// resolveDir interprets a configured path relative to the workspace root.
func resolveDir(root, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// exportFormats resolves the formats a report run should render: an
// explicit --format flag wins, otherwise the configured export formats.
func exportFormats(flag string, gcfg config.GlobalConfig) []string {
	if flag != "" {
		return []string{flag}
	}
	if len(gcfg.Export.Formats) > 0 {
		return gcfg.Export.Formats
	}
	return []string{"markdown"}
}

// colorize wraps s in ANSI cyan when color output is enabled.
func colorize(s string, enabled bool) string {
	if !enabled {
		return s
	}
	return "\x1b[36m" + s + "\x1b[0m"
}

// sortedKeys returns map keys in lexical order for stable output.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
