// Package configuration reads the settings of the command-line tool from
// env-style files and the process environment.
package configuration

import (
	"strconv"
)

type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// Handler reads configuration through a generic provider.
type Handler struct {
	GenericConfigReader genericConfigProvider

	// environ returns the process environment as "key=value" pairs.
	environ func() []string
}

// NewHandler returns a pointer to a new configuration [Handler].
func NewHandler(provider genericConfigProvider) *Handler {
	return &Handler{
		GenericConfigReader: provider,
		environ:             osEnviron,
	}
}

func (c *Handler) ReadGeneric(filenames ...string) (envMap map[string]string, err error) {
	return c.GenericConfigReader.Read(filenames...)
}

func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return value
	}

	return ""
}

func (c *Handler) MapKeyToInt64(envMap map[string]string, key string) int64 {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return -1
	}

	return intValue
}
