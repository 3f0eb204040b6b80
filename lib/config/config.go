// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "STREAMMESH_CONFIG"

// Config is the streammesh configuration file.
type Config struct {
	// BaseURL is the page share links point at.
	// Default: http://localhost:5173/
	BaseURL string `yaml:"base_url"`

	// ParentHost is the embed parent parameter. Empty derives it from
	// BaseURL.
	ParentHost string `yaml:"parent_host"`

	// CompactBreakpoint is the terminal width (columns) below which the
	// stacked layout catalog is used. Default: 100
	CompactBreakpoint int `yaml:"compact_breakpoint"`

	// LogLevel is one of debug, info, warn, error. Default: info
	LogLevel string `yaml:"log_level"`

	// Multiview configures the picture-in-picture surface.
	Multiview MultiviewConfig `yaml:"multiview"`
}

// MultiviewConfig configures the multiview manager and the desktop
// platform that hosts it.
type MultiviewConfig struct {
	// Timeout bounds each platform call. Default: 5s
	Timeout Duration `yaml:"timeout"`

	// FrameRate is the composite refresh rate on constrained
	// platforms. Default: 30
	FrameRate int `yaml:"frame_rate"`

	// AllowedOrigins are accepted as message senders in addition to
	// the origin of BaseURL.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Browser is the command that opens the multiview document. Empty
	// picks the platform opener (xdg-open or open).
	Browser string `yaml:"browser"`

	// DocumentDir is where multiview documents are written.
	// Default: ${XDG_RUNTIME_DIR:-/tmp}/streammesh
	DocumentDir string `yaml:"document_dir"`
}

// Duration is a time.Duration written as a Go duration string ("5s")
// in YAML.
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseURL:           "http://localhost:5173/",
		CompactBreakpoint: 100,
		LogLevel:          "info",
		Multiview: MultiviewConfig{
			Timeout:     Duration(5 * time.Second),
			FrameRate:   30,
			DocumentDir: "${XDG_RUNTIME_DIR:-/tmp}/streammesh",
		},
	}
}

// Resolve picks the configuration source: path when non-empty, else
// STREAMMESH_CONFIG, else Default. The result is expanded but not
// validated.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	cfg := Default()
	cfg.expandVariables()
	return cfg, nil
}

// Load loads configuration from the STREAMMESH_CONFIG environment
// variable. It fails when the variable is unset; use Resolve for the
// default-when-absent behavior.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your streammesh.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path on top of Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.BaseURL = expandVars(c.BaseURL, vars)
	c.Multiview.DocumentDir = expandVars(c.Multiview.DocumentDir, vars)
	c.Multiview.Browser = expandVars(c.Multiview.Browser, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, preferring
// vars over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if parsed, err := url.Parse(c.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("base_url must be an absolute URL, got %q", c.BaseURL))
	}
	if strings.ContainsAny(c.ParentHost, "/:") {
		errs = append(errs, fmt.Errorf("parent_host must be a bare hostname, got %q", c.ParentHost))
	}
	if c.CompactBreakpoint < 0 {
		errs = append(errs, fmt.Errorf("compact_breakpoint must not be negative"))
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of: %v", logLevels))
	}
	if c.Multiview.Timeout.Std() <= 0 {
		errs = append(errs, fmt.Errorf("multiview.timeout must be positive"))
	}
	if c.Multiview.FrameRate < 0 || c.Multiview.FrameRate > 120 {
		errs = append(errs, fmt.Errorf("multiview.frame_rate must be between 0 and 120"))
	}
	for _, origin := range c.Multiview.AllowedOrigins {
		if origin == "*" {
			errs = append(errs, fmt.Errorf("multiview.allowed_origins: wildcard \"*\" is not allowed, list each origin"))
			continue
		}
		if parsed, err := url.Parse(origin); err != nil || parsed.Scheme == "" || parsed.Host == "" || strings.Trim(parsed.Path, "/") != "" {
			errs = append(errs, fmt.Errorf("multiview.allowed_origins: %q is not an origin", origin))
		}
	}
	if c.Multiview.DocumentDir == "" {
		errs = append(errs, fmt.Errorf("multiview.document_dir is required"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Origin returns the scheme://host[:port] of BaseURL, or "" when it
// cannot be parsed.
func (c *Config) Origin() string {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnsureDocumentDir creates the multiview document directory.
func (c *Config) EnsureDocumentDir() error {
	if err := os.MkdirAll(c.Multiview.DocumentDir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", c.Multiview.DocumentDir, err)
	}
	return nil
}

// BrowserCommand resolves the command that opens documents: the
// configured browser when set, else the platform opener found in PATH.
func (c *Config) BrowserCommand() (string, error) {
	candidates := []string{"xdg-open", "open"}
	if c.Multiview.Browser != "" {
		if filepath.IsAbs(c.Multiview.Browser) {
			if _, err := os.Stat(c.Multiview.Browser); err != nil {
				return "", fmt.Errorf("multiview.browser: %w", err)
			}
			return c.Multiview.Browser, nil
		}
		candidates = []string{c.Multiview.Browser}
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no browser opener found in PATH (tried %s)", strings.Join(candidates, ", "))
}
