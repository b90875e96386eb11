// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/samhotchkiss/biztask/internal/models"
)

func init() {
	// Auto-load .env file if present (don't override existing env vars)
	_ = loadDotEnv(".env")
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

const (
	defaultPort             = "4200"
	defaultEnvironment      = "development"
	defaultLogLevel         = zapcore.InfoLevel
	defaultAssistantModel   = "gemini-2.5-flash"
	defaultAssistantTimeout = 30 * time.Second
	defaultTheme            = models.ThemeLight
	defaultWorkspaceIdleTTL = 2 * time.Hour
)

type AssistantConfig struct {
	Model          string
	Timeout        time.Duration
	IncludeHistory bool
}

type Config struct {
	Port               string
	Environment        string
	LogLevel           zapcore.Level
	Assistant          AssistantConfig
	DefaultTheme       models.Theme
	WorkspaceIdleTTL   time.Duration
	WSAllowedOrigins   []string
	CORSAllowedOrigins []string
}

// Load reads the configuration. The assistant credential is not part of it;
// the assistant reads GEMINI_API_KEY or API_KEY on every call.
func Load() (Config, error) {
	cfg := Config{
		Port:        firstNonEmpty(strings.TrimSpace(os.Getenv("PORT")), defaultPort),
		Environment: resolveEnvironment(),
		Assistant: AssistantConfig{
			Model: firstNonEmpty(
				strings.TrimSpace(os.Getenv("ASSISTANT_MODEL")),
				defaultAssistantModel,
			),
		},
		DefaultTheme: models.Theme(strings.ToLower(firstNonEmpty(
			strings.TrimSpace(os.Getenv("DEFAULT_THEME")),
			string(defaultTheme),
		))),
		WSAllowedOrigins:   parseList("WS_ALLOWED_ORIGINS"),
		CORSAllowedOrigins: parseList("CORS_ALLOWED_ORIGINS"),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	logLevel, err := parseLevel("LOG_LEVEL", defaultLogLevel)
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = logLevel

	assistantTimeout, err := parseDuration("ASSISTANT_TIMEOUT", defaultAssistantTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.Assistant.Timeout = assistantTimeout

	includeHistory, err := parseBool("ASSISTANT_INCLUDE_HISTORY", false)
	if err != nil {
		return Config{}, err
	}
	cfg.Assistant.IncludeHistory = includeHistory

	idleTTL, err := parseOptionalDuration("WORKSPACE_IDLE_TTL", defaultWorkspaceIdleTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.WorkspaceIdleTTL = idleTTL

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %q", c.Port)
	}

	if c.Assistant.Model == "" {
		return fmt.Errorf("ASSISTANT_MODEL must not be empty")
	}
	if c.Assistant.Timeout <= 0 {
		return fmt.Errorf("ASSISTANT_TIMEOUT must be greater than zero")
	}

	switch c.DefaultTheme {
	case models.ThemeLight, models.ThemeDark:
	default:
		return fmt.Errorf("DEFAULT_THEME must be light or dark, got %q", c.DefaultTheme)
	}

	if c.WorkspaceIdleTTL < 0 {
		return fmt.Errorf("WORKSPACE_IDLE_TTL must not be negative")
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// IsDevelopment reports whether the environment is a local one.
func (c Config) IsDevelopment() bool {
	return !isNonDevelopment(c.Environment)
}

func resolveEnvironment() string {
	return strings.ToLower(firstNonEmpty(
		strings.TrimSpace(os.Getenv("APP_ENV")),
		strings.TrimSpace(os.Getenv("ENVIRONMENT")),
		strings.TrimSpace(os.Getenv("GO_ENV")),
		defaultEnvironment,
	))
}

func isNonDevelopment(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "dev", "development", "local", "test":
		return false
	default:
		return true
	}
}

func parseBool(name string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return defaultValue, nil
	}

	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s must be a boolean value", name)
	}
}

func parseDuration(name string, defaultValue time.Duration) (time.Duration, error) {
	parsed, err := parseOptionalDuration(name, defaultValue)
	if err != nil {
		return 0, err
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", name)
	}
	return parsed, nil
}

// parseOptionalDuration accepts zero, which callers treat as "disabled".
func parseOptionalDuration(name string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return defaultValue, nil
	}
	if raw == "0" {
		return 0, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", name, err)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return parsed, nil
}

func parseLevel(name string, defaultValue zapcore.Level) (zapcore.Level, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return defaultValue, nil
	}

	level, err := zapcore.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return defaultValue, fmt.Errorf("%s must be a log level: %w", name, err)
	}
	return level, nil
}

func parseList(name string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(name), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
