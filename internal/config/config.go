// Package config manages global (~/.config/omnibridge/config.toml) and
// per-workspace (.omnibridge/config.toml) configuration for OmniBridge.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GlobalConfig holds user-wide settings.
type GlobalConfig struct {
	DefaultAdvisor string           `toml:"default_advisor"`
	Keys           KeysConfig       `toml:"keys"`
	Layers         LayersConfig     `toml:"layers"`
	Connectors     ConnectorsConfig `toml:"connectors"`
	Watch          WatchConfig      `toml:"watch"`
	Export         ExportConfig     `toml:"export"`
	Output         OutputConfig     `toml:"output"`
}

type KeysConfig struct {
	Anthropic string `toml:"anthropic"`
	OpenAI    string `toml:"openai"`
}

// LayersConfig controls memory layer bounds. AlertCapacity bounds the
// ingestion alert layer; DefaultCapacity of zero leaves layers unbounded.
type LayersConfig struct {
	DefaultCapacity int `toml:"default_capacity"`
	AlertCapacity   int `toml:"alert_capacity"`
}

// ConnectorsConfig points the built-in connectors at their data roots.
// Empty paths disable the corresponding connector.
type ConnectorsConfig struct {
	EvidenceDir    string   `toml:"evidence_dir"`
	DocumentsDir   string   `toml:"documents_dir"`
	TranscriptsDir string   `toml:"transcripts_dir"`
	Notes          []string `toml:"notes"`
}

// WatchConfig controls filesystem watch mode.
type WatchConfig struct {
	DebounceMs int `toml:"debounce_ms"`
}

// ExportConfig controls report export defaults.
type ExportConfig struct {
	Formats []string `toml:"formats"`
	Dir     string   `toml:"dir"`
}

type OutputConfig struct {
	Color   bool `toml:"color"`
	Verbose bool `toml:"verbose"`
}

// WorkspaceConfig holds per-workspace overrides stored in .omnibridge/config.toml.
type WorkspaceConfig struct {
	DefaultAdvisor string           `toml:"default_advisor"`
	Workspace      WorkspaceMeta    `toml:"workspace"`
	Layers         LayersConfig     `toml:"layers"`
	Connectors     ConnectorsConfig `toml:"connectors"`
}

type WorkspaceMeta struct {
	Name string `toml:"name"`
}

// DefaultGlobal returns sensible defaults.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		DefaultAdvisor: "heuristic",
		Layers: LayersConfig{
			DefaultCapacity: 0,
			AlertCapacity:   256,
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
		Export: ExportConfig{
			Formats: []string{"markdown", "json"},
			Dir:     "reports",
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "omnibridge", "config.toml"), nil
}

// LoadGlobal loads the global config, applying defaults for any missing values.
// API keys from the environment always win over the config file.
func LoadGlobal() (GlobalConfig, error) {
	cfg := DefaultGlobal()

	path, err := GlobalConfigPath()
	if err != nil {
		applyEnv(&cfg)
		return cfg, nil // Return defaults if we can't determine home dir.
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		applyEnv(&cfg)
		return cfg, nil // File doesn't exist yet — use defaults.
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load global: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *GlobalConfig) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Keys.Anthropic = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}
}

// SaveGlobal writes the global config to disk.
func SaveGlobal(cfg GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create global config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// LoadWorkspace loads .omnibridge/config.toml from the given workspace root.
func LoadWorkspace(root string) (WorkspaceConfig, error) {
	var cfg WorkspaceConfig
	path := filepath.Join(root, ".omnibridge", "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load workspace: %w", err)
	}
	return cfg, nil
}

// SaveWorkspace writes the workspace config to .omnibridge/config.toml.
func SaveWorkspace(root string, cfg WorkspaceConfig) error {
	dir := filepath.Join(root, ".omnibridge")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: mkdir workspace: %w", err)
	}

	path := filepath.Join(dir, "config.toml")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create workspace config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// WorkspaceDBPath returns the path to the workspace's SQLite archive.
func WorkspaceDBPath(root string) string {
	return filepath.Join(root, ".omnibridge", "omnibridge.db")
}

// WorkspaceDirPath returns the path to the workspace's .omnibridge/ directory.
func WorkspaceDirPath(root string) string {
	return filepath.Join(root, ".omnibridge")
}

// Load returns the effective config for a workspace root (global merged
// with workspace overrides). It is a convenience wrapper used by CLI commands.
func Load(root string) (GlobalConfig, error) {
	global, err := LoadGlobal()
	if err != nil {
		global = DefaultGlobal()
		applyEnv(&global)
	}

	ws, err := LoadWorkspace(root)
	if err != nil {
		return global, nil
	}

	if ws.DefaultAdvisor != "" {
		global.DefaultAdvisor = ws.DefaultAdvisor
	}
	if ws.Layers.DefaultCapacity != 0 {
		global.Layers.DefaultCapacity = ws.Layers.DefaultCapacity
	}
	if ws.Layers.AlertCapacity != 0 {
		global.Layers.AlertCapacity = ws.Layers.AlertCapacity
	}
	if ws.Connectors.EvidenceDir != "" {
		global.Connectors.EvidenceDir = ws.Connectors.EvidenceDir
	}
	if ws.Connectors.DocumentsDir != "" {
		global.Connectors.DocumentsDir = ws.Connectors.DocumentsDir
	}
	if ws.Connectors.TranscriptsDir != "" {
		global.Connectors.TranscriptsDir = ws.Connectors.TranscriptsDir
	}
	if len(ws.Connectors.Notes) > 0 {
		global.Connectors.Notes = ws.Connectors.Notes
	}

	return global, nil
}
