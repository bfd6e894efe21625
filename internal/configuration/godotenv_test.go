package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, name, content string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	return file
}

func TestGodotenvProvider_Read(t *testing.T) {
	t.Parallel()

	file := writeEnvFile(t, "giotool.env", "# comment\nGIOTOOL_RATE_LIMIT=250\nGIOTOOL_ATTRIBUTES=\"standard::name\"\nEDITOR=vi\n")

	data, err := NewGodotenvProvider().Read(file)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"GIOTOOL_RATE_LIMIT": "250",
		"GIOTOOL_ATTRIBUTES": "standard::name",
	}, data)
}

func TestGodotenvProvider_Read_WithoutPrefix(t *testing.T) {
	t.Parallel()

	file := writeEnvFile(t, "shared.env", "GIOTOOL_RATE_LIMIT=250\nEDITOR=vi\n")

	data, err := (&GodotenvProvider{}).Read(file)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"GIOTOOL_RATE_LIMIT": "250",
		"EDITOR":             "vi",
	}, data)
}

func TestGodotenvProvider_Read_LaterFileWins(t *testing.T) {
	t.Parallel()

	base := writeEnvFile(t, "base.env", "GIOTOOL_RATE_LIMIT=250\nGIOTOOL_LOG_LEVEL=info\n")
	local := writeEnvFile(t, "local.env", "GIOTOOL_LOG_LEVEL=debug\n")

	data, err := NewGodotenvProvider().Read(base, local)
	require.NoError(t, err)

	assert.Equal(t, "250", data[KeyRateLimit])
	assert.Equal(t, "debug", data[KeyLogLevel])
}

func TestGodotenvProvider_Read_Missing(t *testing.T) {
	t.Parallel()

	_, err := NewGodotenvProvider().Read(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(config-godotenv)")
}
