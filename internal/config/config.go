// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/chroma/v2/styles"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/rigrun-md/internal/codeblock"
	"github.com/jeranaias/rigrun-md/internal/document"
	"github.com/jeranaias/rigrun-md/internal/extract"
	"github.com/jeranaias/rigrun-md/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigrun-md configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Render RenderConfig `toml:"render" json:"render"`
	Code   CodeConfig   `toml:"code" json:"code"`
	UI     UIConfig     `toml:"ui" json:"ui"`
	Images ImagesConfig `toml:"images" json:"images"`
	Log    LogConfig    `toml:"log" json:"log"`
	Watch  WatchConfig  `toml:"watch" json:"watch"`
}

// RenderConfig controls document assembly.
type RenderConfig struct {
	// BaseURL is prepended to relative image URLs.
	BaseURL string `toml:"base_url" json:"base_url"`

	ShowReasoning    bool `toml:"show_reasoning" json:"show_reasoning"`
	ImageGallery     bool `toml:"image_gallery" json:"image_gallery"`
	FinalAnswerLabel bool `toml:"final_answer_label" json:"final_answer_label"`

	// HeaderStyle is "none", "language" or "language+copy".
	HeaderStyle string `toml:"header_style" json:"header_style"`

	// ImagePolicy is "content" (scan reasoning too) or "prose".
	ImagePolicy string `toml:"image_policy" json:"image_policy"`

	// WordWrap is the terminal wrap width; 0 uses the terminal width.
	WordWrap int `toml:"word_wrap" json:"word_wrap"`
}

// CodeConfig controls code block highlighting.
type CodeConfig struct {
	ReasoningStyle string `toml:"reasoning_style" json:"reasoning_style"`
	AnswerStyle    string `toml:"answer_style" json:"answer_style"`
	LineNumbers    bool   `toml:"line_numbers" json:"line_numbers"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
	// Locale selects label language; empty uses $LANG.
	Locale string `toml:"locale" json:"locale"`
}

// ImagesConfig controls image probing.
type ImagesConfig struct {
	Probe          bool `toml:"probe" json:"probe"`
	ProbeTimeoutMS int  `toml:"probe_timeout_ms" json:"probe_timeout_ms"`
	Concurrency    int  `toml:"concurrency" json:"concurrency"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level       string `toml:"level" json:"level"`
	Development bool   `toml:"development" json:"development"`
}

// WatchConfig controls file watching.
type WatchConfig struct {
	DebounceMS       int     `toml:"debounce_ms" json:"debounce_ms"`
	MaxRendersPerSec float64 `toml:"max_renders_per_sec" json:"max_renders_per_sec"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1",
		Render: RenderConfig{
			ShowReasoning:    true,
			ImageGallery:     true,
			FinalAnswerLabel: true,
			HeaderStyle:      document.HeaderLanguageCopy.String(),
			ImagePolicy:      string(extract.ScanContent),
		},
		Code: CodeConfig{
			ReasoningStyle: codeblock.ReasoningTheme.ChromaStyle,
			AnswerStyle:    codeblock.AnswerTheme.ChromaStyle,
			LineNumbers:    true,
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Images: ImagesConfig{
			Probe:          false,
			ProbeTimeoutMS: 5000,
			Concurrency:    4,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Watch: WatchConfig{
			DebounceMS:       150,
			MaxRendersPerSec: 10,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rigrun configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigrun"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "md.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "md.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	var loadErr error

	for _, candidate := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := candidate()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err != nil {
			loadErr = err
			continue
		}
		return cfg, nil
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
// Keys missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# rigrun-md configuration file\n")
	sb.WriteString("# Generated by rigrun-md - edit with care\n\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if c.Render.BaseURL != "" {
		u, err := url.Parse(c.Render.BaseURL)
		if err != nil {
			add("render.base_url", fmt.Sprintf("invalid URL: %v", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			add("render.base_url", "must use http or https scheme")
		}
	}
	if _, err := document.ParseHeaderStyle(c.Render.HeaderStyle); err != nil {
		add("render.header_style", "must be one of: none, language, language+copy")
	}
	if p := c.Render.ImagePolicy; p != string(extract.ScanContent) && p != string(extract.ScanProse) {
		add("render.image_policy", "must be one of: content, prose")
	}
	if c.Render.WordWrap < 0 || c.Render.WordWrap > 1000 {
		add("render.word_wrap", "must be between 0 and 1000")
	}

	if _, ok := styles.Registry[c.Code.ReasoningStyle]; !ok {
		add("code.reasoning_style", fmt.Sprintf("unknown chroma style %q", c.Code.ReasoningStyle))
	}
	if _, ok := styles.Registry[c.Code.AnswerStyle]; !ok {
		add("code.answer_style", fmt.Sprintf("unknown chroma style %q", c.Code.AnswerStyle))
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		add("ui.theme", "must be one of: auto, dark, light")
	}

	if c.Images.ProbeTimeoutMS < 100 || c.Images.ProbeTimeoutMS > 60000 {
		add("images.probe_timeout_ms", "must be between 100 and 60000")
	}
	if c.Images.Concurrency < 1 || c.Images.Concurrency > 64 {
		add("images.concurrency", "must be between 1 and 64")
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "must be one of: debug, info, warn, error")
	}

	if c.Watch.DebounceMS < 0 || c.Watch.DebounceMS > 10000 {
		add("watch.debounce_ms", "must be between 0 and 10000")
	}
	if c.Watch.MaxRendersPerSec <= 0 {
		add("watch.max_renders_per_sec", "must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
// Booleans are left alone since false is a valid setting.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Render.HeaderStyle == "" {
		c.Render.HeaderStyle = defaults.Render.HeaderStyle
	}
	if c.Render.ImagePolicy == "" {
		c.Render.ImagePolicy = defaults.Render.ImagePolicy
	}
	if c.Code.ReasoningStyle == "" {
		c.Code.ReasoningStyle = defaults.Code.ReasoningStyle
	}
	if c.Code.AnswerStyle == "" {
		c.Code.AnswerStyle = defaults.Code.AnswerStyle
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Images.ProbeTimeoutMS == 0 {
		c.Images.ProbeTimeoutMS = defaults.Images.ProbeTimeoutMS
	}
	if c.Images.Concurrency == 0 {
		c.Images.Concurrency = defaults.Images.Concurrency
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Watch.MaxRendersPerSec == 0 {
		c.Watch.MaxRendersPerSec = defaults.Watch.MaxRendersPerSec
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - NEXT_BASE_URL: overrides render.base_url (compatibility)
//   - RIGRUN_MD_BASE_URL: overrides render.base_url, wins over NEXT_BASE_URL
//   - RIGRUN_MD_LOCALE: overrides ui.locale
//   - RIGRUN_MD_THEME: overrides ui.theme
//   - RIGRUN_MD_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if base := os.Getenv("NEXT_BASE_URL"); base != "" {
		c.Render.BaseURL = base
	}
	if base := os.Getenv("RIGRUN_MD_BASE_URL"); base != "" {
		c.Render.BaseURL = base
	}
	if locale := os.Getenv("RIGRUN_MD_LOCALE"); locale != "" {
		c.UI.Locale = locale
	}
	if theme := os.Getenv("RIGRUN_MD_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}
	if level := os.Getenv("RIGRUN_MD_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// ToOptions maps the render and code sections onto pipeline options.
// Call Validate first; invalid values fall back to defaults.
func (c *Config) ToOptions() document.Options {
	opts := document.DefaultOptions()
	opts.ShowReasoningSections = c.Render.ShowReasoning
	opts.ImageGallery = c.Render.ImageGallery
	opts.FinalAnswerLabel = c.Render.FinalAnswerLabel
	opts.BaseURL = c.Render.BaseURL
	opts.ImagePolicy = extract.ParseImagePolicy(c.Render.ImagePolicy)
	if style, err := document.ParseHeaderStyle(c.Render.HeaderStyle); err == nil {
		opts.HeaderStyle = style
	}
	opts.Themes = c.Themes()
	return opts
}

// Themes returns the code block themes with configured chroma styles.
func (c *Config) Themes() codeblock.Themes {
	themes := codeblock.DefaultThemes()
	if c.Code.ReasoningStyle != "" {
		themes.Reasoning.ChromaStyle = c.Code.ReasoningStyle
	}
	if c.Code.AnswerStyle != "" {
		themes.Answer.ChromaStyle = c.Code.AnswerStyle
	}
	return themes
}

// Locale returns the configured locale, falling back to the environment.
func (c *Config) Locale() string {
	if c.UI.Locale != "" {
		return c.UI.Locale
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// ProbeTimeout returns the image probe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Images.ProbeTimeoutMS) * time.Millisecond
}

// Debounce returns the watch debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "render.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "render.base_url").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks a dotted key to a leaf field.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %w", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes" || lower == "on")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation, from TOML tags.
func GetAllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.Split(f.Tag.Get("toml"), ",")[0]
			if name == "" || name == "-" {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+name+".")
				continue
			}
			keys = append(keys, prefix+name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return sb.String()
}
