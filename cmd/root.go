package cmd

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"viajeia/internal/planner"
)

// Config holds CLI configuration.
type Config struct {
	ConfigDir     string
	DBPath        string
	APIURL        string
	ExportDir     string
	LogLevel      string
	LogFile       string
	PhotoPreviews bool
	ShowVersion   bool

	apiURLFlag string
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags(version string) (*Config, error) {
	// Load .env files first so env-based defaults work with existing flag parsing.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	config, err := parseArgs(flag.CommandLine, os.Args[1:], os.Getenv, home)
	if err != nil {
		return nil, err
	}
	if config.ShowVersion {
		fmt.Printf("viajeia %s\n", version)
		return config, nil
	}

	if err := os.MkdirAll(config.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	settings, err := loadOnboardingSettings(config.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding settings: %w", err)
	}

	if shouldRunOnboarding(settings) {
		settings, err = runOnboarding(config.ConfigDir, config.APIURL)
		if err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
	}

	config.applySettings(settings, os.Getenv)
	return config, nil
}

// parseArgs reads flags and environment. Onboarding settings are applied
// separately by applySettings.
func parseArgs(fs *flag.FlagSet, args []string, getenv func(string) string, home string) (*Config, error) {
	config := &Config{}

	fs.StringVar(&config.DBPath, "db", "", "Path to SQLite database file (default: ~/.viajeia/viajeia.db)")
	fs.StringVar(&config.apiURLFlag, "api-url", "", "Planning service base URL (or set VIAJEIA_API_URL env var)")
	fs.StringVar(&config.ExportDir, "out", "", "Directory for exported itineraries (or set VIAJEIA_EXPORT_DIR env var)")
	fs.StringVar(&config.LogLevel, "log-level", "", "Log level: debug, info, warn, error (or set LOG_LEVEL env var)")
	fs.StringVar(&config.LogFile, "log-file", "", "Log file path (default: ~/.viajeia/viajeia.log)")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Set default DB path if not specified
	if config.DBPath == "" {
		config.ConfigDir = filepath.Join(home, ".viajeia")
		config.DBPath = filepath.Join(config.ConfigDir, "viajeia.db")
	} else {
		config.ConfigDir = filepath.Dir(config.DBPath)
	}

	if config.LogFile == "" {
		config.LogFile = filepath.Join(config.ConfigDir, "viajeia.log")
	}
	if config.LogLevel == "" {
		config.LogLevel = getenv("LOG_LEVEL")
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ExportDir == "" {
		config.ExportDir = getenv("VIAJEIA_EXPORT_DIR")
	}
	if config.ExportDir == "" {
		config.ExportDir = "."
	}

	config.PhotoPreviews = true
	config.APIURL = resolveAPIURL(config.apiURLFlag, getenv, "")
	return config, nil
}

// applySettings folds the first-run choices into the config.
func (c *Config) applySettings(settings OnboardingSettings, getenv func(string) string) {
	c.PhotoPreviews = settings.PhotoPreviews
	c.APIURL = resolveAPIURL(c.apiURLFlag, getenv, settings.APIURL)
}

// resolveAPIURL picks the planning service URL: flag, VIAJEIA_API_URL,
// VITE_API_URL, the address saved during setup, then the default.
func resolveAPIURL(flagValue string, getenv func(string) string, saved string) string {
	for _, candidate := range []string{flagValue, getenv("VIAJEIA_API_URL"), getenv("VITE_API_URL"), saved} {
		if strings.TrimSpace(candidate) != "" {
			return planner.NormalizeBaseURL(candidate)
		}
	}
	return planner.DefaultBaseURL
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		value = strings.Trim(value, `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
