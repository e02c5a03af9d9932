package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Modes supported by the surveyform command.
const (
	ModeRender = "render"
	ModeTake   = "take"
	ModeServe  = "serve"
)

// Config holds the command settings. Flags win over SURVEYFORM_* environment
// variables, which may come from a .env file.
type Config struct {
	Mode         string
	Surveys      []string
	Output       string
	OutputFormat string
	Preset       string
	StrictLint   bool
	Server       ServerConfig
	Theme        ThemeConfig
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Addr          string
	BasePath      string
	CacheSize     int
	RequireHidden bool
}

// ThemeConfig selects the theme and overrides the border tokens.
type ThemeConfig struct {
	Name        string
	Variant     string
	Border      string
	BorderError string
}

// Load reads .env (when present) and parses args.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()
	return Parse(args, os.Getenv)
}

// Parse builds a Config from args with defaults taken from getenv.
func Parse(args []string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	env := func(key, fallback string) string {
		return firstNonEmpty(strings.TrimSpace(getenv("SURVEYFORM_"+key)), fallback)
	}

	fs := flag.NewFlagSet("surveyform", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	mode := fs.String("mode", env("MODE", ModeRender), "render, take or serve")
	surveys := fs.String("survey", env("SURVEY", ""), "comma separated survey definition paths (JSON or YAML)")
	output := fs.String("output", env("OUTPUT", ""), "output file (stdout if empty)")
	format := fs.String("format", env("FORMAT", "json"), "answers format in take mode: json, form or pretty")
	preset := fs.String("preset", env("PRESET", ""), "JSON preset applied to every survey")
	strict := fs.Bool("strict", parseBool(env("STRICT", "")), "fail when a survey has lint findings")
	addr := fs.String("addr", env("ADDR", ":8080"), "listen address in serve mode")
	basePath := fs.String("base-path", env("BASE_PATH", "/"), "mount path in serve mode")
	cacheSize := fs.Int("cache-size", parseInt(env("CACHE_SIZE", ""), 128), "answers endpoint cache entries, 0 disables")
	requireHidden := fs.Bool("require-hidden", parseBool(env("REQUIRE_HIDDEN", "")), "enforce required questions even when hidden")
	themeName := fs.String("theme", env("THEME", ""), "theme name")
	variant := fs.String("variant", env("THEME_VARIANT", ""), "theme variant")
	border := fs.String("border", env("BORDER", ""), "question border")
	borderError := fs.String("border-error", env("BORDER_ERROR", ""), "question border when invalid")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{
		Mode:         strings.ToLower(strings.TrimSpace(*mode)),
		Surveys:      splitList(*surveys),
		Output:       strings.TrimSpace(*output),
		OutputFormat: strings.ToLower(strings.TrimSpace(*format)),
		Preset:       strings.TrimSpace(*preset),
		StrictLint:   *strict,
		Server: ServerConfig{
			Addr:          strings.TrimSpace(*addr),
			BasePath:      strings.TrimSpace(*basePath),
			CacheSize:     *cacheSize,
			RequireHidden: *requireHidden,
		},
		Theme: ThemeConfig{
			Name:        strings.TrimSpace(*themeName),
			Variant:     strings.TrimSpace(*variant),
			Border:      strings.TrimSpace(*border),
			BorderError: strings.TrimSpace(*borderError),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeRender, ModeTake, ModeServe:
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}
	if len(c.Surveys) == 0 {
		return errors.New("config: at least one survey path is required")
	}
	if c.Mode != ModeServe && len(c.Surveys) > 1 {
		return fmt.Errorf("config: %s mode takes a single survey", c.Mode)
	}
	if c.Server.CacheSize < 0 {
		return errors.New("config: cache size must not be negative")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(raw string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && value
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
