package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const prefsFile = "ui_prefs.json"

// TablePrefs stores per-table UI preferences.
type TablePrefs struct {
	SortKey       string   `json:"sort_key"`
	SortDesc      bool     `json:"sort_desc"`
	HiddenColumns []string `json:"hidden_columns"`
	ActiveColumn  string   `json:"active_column"`
}

// UIPreferences stores persisted app preferences.
type UIPreferences struct {
	Favorites TablePrefs `json:"favorites"`
}

func defaultUIPreferences() UIPreferences {
	return UIPreferences{
		Favorites: TablePrefs{SortKey: "saved", SortDesc: true},
	}
}

func prefsPath(configDir string) string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, prefsFile)
}

func loadUIPreferences(configDir string) UIPreferences {
	path := prefsPath(configDir)
	if path == "" {
		return defaultUIPreferences()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return defaultUIPreferences()
	}

	var prefs UIPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return defaultUIPreferences()
	}
	return prefs
}

func saveUIPreferences(configDir string, prefs UIPreferences) error {
	path := prefsPath(configDir)
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}
