package configuration

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	KeyPollInterval = "GIOTOOL_POLL_INTERVAL"
	KeyRateLimit    = "GIOTOOL_RATE_LIMIT"
	KeyAttributes   = "GIOTOOL_ATTRIBUTES"
	KeySchemes      = "GIOTOOL_SCHEMES"
	KeyLogLevel     = "GIOTOOL_LOG_LEVEL"

	envPrefix = "GIOTOOL_"

	DefaultPollInterval = time.Second
	DefaultRateLimit    = 800 * time.Millisecond
	DefaultAttributes   = "standard::*,time::modified,unix::mode"
)

// ErrInvalidSetting is an error that occurs when a configuration value
// cannot be parsed.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings are the tunables of the command-line tool.
type Settings struct {
	PollInterval time.Duration
	RateLimit    time.Duration
	Attributes   string

	// Schemes maps extra URI schemes to the directories serving them.
	Schemes map[string]string

	LogLevel slog.Level
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		PollInterval: DefaultPollInterval,
		RateLimit:    DefaultRateLimit,
		Attributes:   DefaultAttributes,
		Schemes:      make(map[string]string),
		LogLevel:     slog.LevelInfo,
	}
}

func osEnviron() []string {
	return os.Environ()
}

// LoadSettings reads the given env-style files, if any, and overlays the
// GIOTOOL_ variables of the process environment on top of them.
func (c *Handler) LoadSettings(filenames ...string) (*Settings, error) {
	envMap := make(map[string]string)

	if len(filenames) > 0 {
		fileMap, err := c.ReadGeneric(filenames...)
		if err != nil {
			return nil, fmt.Errorf("(config) %w", err)
		}
		maps.Copy(envMap, fileMap)
	}

	if c.environ != nil {
		for _, kv := range c.environ() {
			key, value, ok := strings.Cut(kv, "=")
			if ok && strings.HasPrefix(key, envPrefix) {
				envMap[key] = value
			}
		}
	}

	return c.parseSettings(envMap)
}

func (c *Handler) parseSettings(envMap map[string]string) (*Settings, error) {
	s := DefaultSettings()

	var err error

	if s.PollInterval, err = c.millis(envMap, KeyPollInterval, s.PollInterval); err != nil {
		return nil, err
	}

	if s.RateLimit, err = c.millis(envMap, KeyRateLimit, s.RateLimit); err != nil {
		return nil, err
	}

	if v := c.MapKeyToString(envMap, KeyAttributes); v != "" {
		s.Attributes = v
	}

	if v := c.MapKeyToString(envMap, KeySchemes); v != "" {
		if s.Schemes, err = parseSchemes(v); err != nil {
			return nil, err
		}
	}

	if v := c.MapKeyToString(envMap, KeyLogLevel); v != "" {
		if err := s.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("(config) %s=%q: %w", KeyLogLevel, v, ErrInvalidSetting)
		}
	}

	return s, nil
}

// millis reads a non-negative duration given in milliseconds.
func (c *Handler) millis(envMap map[string]string, key string, fallback time.Duration) (time.Duration, error) {
	if c.MapKeyToString(envMap, key) == "" {
		return fallback, nil
	}

	ms := c.MapKeyToInt64(envMap, key)
	if ms < 0 {
		return 0, fmt.Errorf("(config) %s=%q: %w", key, envMap[key], ErrInvalidSetting)
	}

	return time.Duration(ms) * time.Millisecond, nil
}

// parseSchemes parses "name=/dir,other=/dir2".
func parseSchemes(value string) (map[string]string, error) {
	schemes := make(map[string]string)

	for entry := range strings.SplitSeq(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, dir, ok := strings.Cut(entry, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		dir = strings.TrimSpace(dir)

		if !ok || name == "" || !filepath.IsAbs(dir) {
			return nil, fmt.Errorf("(config) %s entry %q: %w", KeySchemes, entry, ErrInvalidSetting)
		}

		schemes[name] = filepath.Clean(dir)
	}

	return schemes, nil
}
