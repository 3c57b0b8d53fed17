package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mergepdf/internal/config"
)

const envPrefix = "MERGEPDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // MERGEPDF_CONFIG: config file name or path

	InputDir string // MERGEPDF_INPUT_DIR: base directory for relative inputs
	Output   string // MERGEPDF_OUTPUT: output file

	PageSize       string   // MERGEPDF_PAGE_SIZE: letter, a4, legal
	Orientation    string   // MERGEPDF_ORIENTATION: portrait, landscape
	Margin         *float64 // MERGEPDF_MARGIN: all margins in inches
	PageNumbers    *bool    // MERGEPDF_PAGE_NUMBERS: true/false
	NumberPosition string   // MERGEPDF_NUMBER_POSITION: bottom-left, bottom-right

	Author   string // MERGEPDF_AUTHOR: document author
	Date     string // MERGEPDF_DATE: creation date
	Password string // MERGEPDF_PASSWORD: user password (never applied)

	Workers    int // MERGEPDF_WORKERS: parallel batch jobs
	MaxSources int // MERGEPDF_MAX_SOURCES: files per document
}

// knownEnvVars lists valid MERGEPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MERGEPDF_CONFIG":          true,
	"MERGEPDF_INPUT_DIR":       true,
	"MERGEPDF_OUTPUT":          true,
	"MERGEPDF_PAGE_SIZE":       true,
	"MERGEPDF_ORIENTATION":     true,
	"MERGEPDF_MARGIN":          true,
	"MERGEPDF_PAGE_NUMBERS":    true,
	"MERGEPDF_NUMBER_POSITION": true,
	"MERGEPDF_AUTHOR":          true,
	"MERGEPDF_DATE":            true,
	"MERGEPDF_PASSWORD":        true,
	"MERGEPDF_WORKERS":         true,
	"MERGEPDF_MAX_SOURCES":     true,
}

// loadEnvConfig reads configuration from environment variables.
// Values that do not parse are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:     os.Getenv("MERGEPDF_CONFIG"),
		InputDir:       os.Getenv("MERGEPDF_INPUT_DIR"),
		Output:         os.Getenv("MERGEPDF_OUTPUT"),
		PageSize:       os.Getenv("MERGEPDF_PAGE_SIZE"),
		Orientation:    os.Getenv("MERGEPDF_ORIENTATION"),
		NumberPosition: os.Getenv("MERGEPDF_NUMBER_POSITION"),
		Author:         os.Getenv("MERGEPDF_AUTHOR"),
		Date:           os.Getenv("MERGEPDF_DATE"),
		Password:       os.Getenv("MERGEPDF_PASSWORD"),
	}

	if v := os.Getenv("MERGEPDF_MARGIN"); v != "" {
		if m, err := strconv.ParseFloat(v, 64); err == nil && m >= 0 {
			cfg.Margin = &m
		}
	}
	if v := os.Getenv("MERGEPDF_PAGE_NUMBERS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PageNumbers = &b
		}
	}
	if v := os.Getenv("MERGEPDF_WORKERS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	if v := os.Getenv("MERGEPDF_MAX_SOURCES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSources = n
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MERGEPDF_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the variables that are set.
// CLI flags are applied afterwards, so the precedence is
// flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.Output != "" {
		cfg.Output.File = env.Output
	}

	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Orientation != "" {
		cfg.Page.Orientation = env.Orientation
	}
	if env.Margin != nil {
		cfg.Margins = config.MarginsConfig{All: env.Margin}
	}
	if env.PageNumbers != nil {
		cfg.PageNumbers.Enabled = *env.PageNumbers
	}
	if env.NumberPosition != "" {
		cfg.PageNumbers.Position = env.NumberPosition
	}

	if env.Author != "" {
		cfg.Metadata.Author = env.Author
	}
	if env.Date != "" {
		cfg.Metadata.Date = env.Date
	}
	if env.Password != "" {
		cfg.Password = config.PasswordConfig{User: env.Password, Confirm: env.Password}
	}
}
