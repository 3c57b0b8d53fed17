package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mergepdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxPageSizeLength    = 10  // "letter", "a4", "legal"
	MaxOrientationLength = 10  // "portrait", "landscape"
	MaxPositionLength    = 20  // "bottom-left", "bottom-right"
	MaxTitleLength       = 200 // document title
	MaxAuthorLength      = 100
	MaxSubjectLength     = 200
	MaxDateLength        = 30 // "2025-12-31" or "auto:MMMM D, YYYY"
	MaxPasswordLength    = 128
	MaxJobNameLength     = 100
	MaxJobs              = 100
)

// DefaultMargin is applied to every side when no margin is configured, in inches.
const DefaultMargin = 0.5

// DefaultOutputFile is written when no output is configured.
const DefaultOutputFile = "merged.pdf"

// configDirName is the folder searched under the user config directory.
const configDirName = "go-mergepdf"

// Config holds all configuration for document assembly.
type Config struct {
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Page        PageConfig        `yaml:"page"`
	Margins     MarginsConfig     `yaml:"margins"`
	PageNumbers PageNumbersConfig `yaml:"pageNumbers"`
	Metadata    MetadataConfig    `yaml:"metadata"`
	Password    PasswordConfig    `yaml:"password"`
	Jobs        []JobConfig       `yaml:"jobs"`
}

// InputConfig defines input source options.
type InputConfig struct {
	Files      []string `yaml:"files"`      // Sources used when none are given on the command line
	DefaultDir string   `yaml:"defaultDir"` // Relative input paths are resolved against it
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	File string `yaml:"file"` // Output path (default: merged.pdf)
}

// PageConfig defines the size of pages created for images.
type PageConfig struct {
	Size        string `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
}

// MarginsConfig defines page margins in inches. A side left unset falls
// back to All, then to DefaultMargin.
type MarginsConfig struct {
	All    *float64 `yaml:"all"`
	Top    *float64 `yaml:"top"`
	Right  *float64 `yaml:"right"`
	Bottom *float64 `yaml:"bottom"`
	Left   *float64 `yaml:"left"`
}

// PageNumbersConfig defines page stamping.
type PageNumbersConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Position string `yaml:"position"` // "bottom-left", "bottom-right" (default: "bottom-left")
}

// MetadataConfig defines the document information dictionary.
type MetadataConfig struct {
	Title   string `yaml:"title"`
	Author  string `yaml:"author"`
	Subject string `yaml:"subject"`
	Date    string `yaml:"date"` // "auto", "auto:FORMAT" or a calendar date
}

// PasswordConfig holds the password pair. Protection is never applied.
type PasswordConfig struct {
	User    string `yaml:"user"`
	Confirm string `yaml:"confirm"`
}

// JobConfig is one document built by the batch command. Unset sections
// inherit the top-level ones.
type JobConfig struct {
	Name        string             `yaml:"name"`
	Output      string             `yaml:"output"`
	Inputs      []string           `yaml:"inputs"`
	Page        *PageConfig        `yaml:"page"`
	Margins     *MarginsConfig     `yaml:"margins"`
	PageNumbers *PageNumbersConfig `yaml:"pageNumbers"`
	Metadata    *MetadataConfig    `yaml:"metadata"`
}

// Resolve returns top, right, bottom and left margins in inches.
func (m MarginsConfig) Resolve() (top, right, bottom, left float64) {
	all := DefaultMargin
	if m.All != nil {
		all = *m.All
	}
	pick := func(side *float64) float64 {
		if side != nil {
			return *side
		}
		return all
	}
	return pick(m.Top), pick(m.Right), pick(m.Bottom), pick(m.Left)
}

// Merge returns m with the sides set in override replaced.
func (m MarginsConfig) Merge(override *MarginsConfig) MarginsConfig {
	if override == nil {
		return m
	}
	if override.All != nil {
		m = MarginsConfig{All: override.All}
	}
	for _, p := range []struct{ dst, src **float64 }{
		{&m.Top, &override.Top},
		{&m.Right, &override.Right},
		{&m.Bottom, &override.Bottom},
		{&m.Left, &override.Left},
	} {
		if *p.src != nil {
			*p.dst = *p.src
		}
	}
	return m
}

// ForJob returns the configuration of job i: the top-level sections with the
// job's own sections applied. Jobs are cleared in the result.
func (c *Config) ForJob(i int) (*Config, error) {
	if i < 0 || i >= len(c.Jobs) {
		return nil, fmt.Errorf("%w: job index %d out of range", ErrInvalidValue, i)
	}
	job := c.Jobs[i]
	out := *c
	out.Jobs = nil
	out.Input = InputConfig{Files: job.Inputs, DefaultDir: c.Input.DefaultDir}
	out.Output = OutputConfig{File: job.Output}
	if job.Page != nil {
		if job.Page.Size != "" {
			out.Page.Size = job.Page.Size
		}
		if job.Page.Orientation != "" {
			out.Page.Orientation = job.Page.Orientation
		}
	}
	out.Margins = c.Margins.Merge(job.Margins)
	if job.PageNumbers != nil {
		out.PageNumbers = *job.PageNumbers
	}
	if job.Metadata != nil {
		out.Metadata = *job.Metadata
	}
	return &out, nil
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	for i, f := range c.Input.Files {
		if err := validateFieldLength(fmt.Sprintf("input.files[%d]", i), f, MaxPathLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("output.file", c.Output.File, MaxPathLength); err != nil {
		return err
	}
	if err := validatePage("page", c.Page); err != nil {
		return err
	}
	if err := validateMargins("margins", c.Margins); err != nil {
		return err
	}
	if err := validatePageNumbers("pageNumbers", c.PageNumbers); err != nil {
		return err
	}
	if err := validateMetadata("metadata", c.Metadata); err != nil {
		return err
	}
	if err := validateFieldLength("password.user", c.Password.User, MaxPasswordLength); err != nil {
		return err
	}
	if err := validateFieldLength("password.confirm", c.Password.Confirm, MaxPasswordLength); err != nil {
		return err
	}
	return c.validateJobs()
}

func (c *Config) validateJobs() error {
	if len(c.Jobs) > MaxJobs {
		return fmt.Errorf("%w: jobs: %d jobs (max %d)", ErrInvalidValue, len(c.Jobs), MaxJobs)
	}
	names := make(map[string]bool, len(c.Jobs))
	outputs := make(map[string]bool, len(c.Jobs))
	for i, job := range c.Jobs {
		field := fmt.Sprintf("jobs[%d]", i)
		if err := validateFieldLength(field+".name", job.Name, MaxJobNameLength); err != nil {
			return err
		}
		if job.Name != "" {
			if names[job.Name] {
				return fmt.Errorf("%w: %s.name: duplicate job name %q", ErrInvalidValue, field, job.Name)
			}
			names[job.Name] = true
		}
		if job.Output == "" {
			return fmt.Errorf("%w: %s.output: required", ErrInvalidValue, field)
		}
		if err := validateFieldLength(field+".output", job.Output, MaxPathLength); err != nil {
			return err
		}
		clean := filepath.Clean(job.Output)
		if outputs[clean] {
			return fmt.Errorf("%w: %s.output: %q is written by another job", ErrInvalidValue, field, job.Output)
		}
		outputs[clean] = true
		if len(job.Inputs) == 0 {
			return fmt.Errorf("%w: %s.inputs: at least one input is required", ErrInvalidValue, field)
		}
		for j, in := range job.Inputs {
			if err := validateFieldLength(fmt.Sprintf("%s.inputs[%d]", field, j), in, MaxPathLength); err != nil {
				return err
			}
		}
		if job.Page != nil {
			if err := validatePage(field+".page", *job.Page); err != nil {
				return err
			}
		}
		if job.Margins != nil {
			if err := validateMargins(field+".margins", *job.Margins); err != nil {
				return err
			}
		}
		if job.PageNumbers != nil {
			if err := validatePageNumbers(field+".pageNumbers", *job.PageNumbers); err != nil {
				return err
			}
		}
		if job.Metadata != nil {
			if err := validateMetadata(field+".metadata", *job.Metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

func validatePage(field string, p PageConfig) error {
	if err := validateFieldLength(field+".size", p.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".orientation", p.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	switch strings.ToLower(p.Size) {
	case "", "letter", "legal", "a4":
	default:
		return fmt.Errorf("%w: %s.size: %q (must be letter, legal, or a4)", ErrInvalidValue, field, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("%w: %s.orientation: %q (must be portrait or landscape)", ErrInvalidValue, field, p.Orientation)
	}
	return nil
}

func validateMargins(field string, m MarginsConfig) error {
	sides := []struct {
		name  string
		value *float64
	}{
		{"all", m.All}, {"top", m.Top}, {"right", m.Right}, {"bottom", m.Bottom}, {"left", m.Left},
	}
	for _, s := range sides {
		if s.value == nil {
			continue
		}
		v := *s.value
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s.%s: must be a non-negative number of inches, got %v", ErrInvalidValue, field, s.name, v)
		}
	}
	return nil
}

func validatePageNumbers(field string, p PageNumbersConfig) error {
	if err := validateFieldLength(field+".position", p.Position, MaxPositionLength); err != nil {
		return err
	}
	switch strings.ToLower(p.Position) {
	case "", "bottom-left", "bottom-right":
		return nil
	default:
		return fmt.Errorf("%w: %s.position: %q (must be bottom-left or bottom-right)", ErrInvalidValue, field, p.Position)
	}
}

func validateMetadata(field string, m MetadataConfig) error {
	if err := validateFieldLength(field+".title", m.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".author", m.Author, MaxAuthorLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".subject", m.Subject, MaxSubjectLength); err != nil {
		return err
	}
	return validateFieldLength(field+".date", m.Date, MaxDateLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a letter portrait configuration without page numbers.
// Margins resolve to DefaultMargin and the creation date to today.
func DefaultConfig() *Config {
	return &Config{
		Output:   OutputConfig{File: DefaultOutputFile},
		Page:     PageConfig{Size: "letter", Orientation: "portrait"},
		Metadata: MetadataConfig{Date: "auto"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mergepdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
