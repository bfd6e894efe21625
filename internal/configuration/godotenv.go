package configuration

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/joho/godotenv"
)

// GodotenvProvider reads env-style configuration files with godotenv. Only
// the keys carrying Prefix are returned, so a shared env file can also hold
// settings of other programs. Later files override earlier ones.
type GodotenvProvider struct {
	Prefix string
}

// NewGodotenvProvider returns a provider for the GIOTOOL_ settings.
func NewGodotenvProvider() *GodotenvProvider {
	return &GodotenvProvider{Prefix: envPrefix}
}

// Read reads the files into a map (map[key]value).
func (p *GodotenvProvider) Read(filenames ...string) (map[string]string, error) {
	data, err := godotenv.Read(filenames...)
	if err != nil {
		return nil, fmt.Errorf("(config-godotenv) %w", err)
	}

	if p.Prefix == "" {
		return data, nil
	}

	maps.DeleteFunc(data, func(key, _ string) bool {
		if strings.HasPrefix(key, p.Prefix) {
			return false
		}
		slog.Debug("Ignoring foreign configuration key.", "key", key, "prefix", p.Prefix)

		return true
	})

	return data, nil
}
