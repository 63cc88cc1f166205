package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	t.Setenv("OCIGO_TEST_PW", "tiger")
	path := writeFile(t, "ocictl.toml", `
[client]
library_path = "/opt/oracle/libclntsh.so"
enable_objects = true

[connection]
address = "db.example.com:1521/ORCL"
username = "scott"
password = "${OCIGO_TEST_PW}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/oracle/libclntsh.so", cfg.Client.LibraryPath)
	assert.True(t, cfg.Client.EnableObjects)
	assert.Equal(t, "info", cfg.Client.LogLevel)
	assert.Equal(t, "db.example.com:1521/ORCL", cfg.Connection.Address)
	assert.Equal(t, "scott", cfg.Connection.Username)
	assert.Equal(t, "tiger", cfg.Connection.Password)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("OCIGO_TEST_PW", "lion")
	for _, name := range []string{"ocictl.yaml", "ocictl.yml"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, `
client:
  log_level: debug
connection:
  address: ORCL
  username: hr
  password: $OCIGO_TEST_PW
`)
			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "debug", cfg.Client.LogLevel)
			assert.Equal(t, "ORCL", cfg.Connection.Address)
			assert.Equal(t, "hr", cfg.Connection.Username)
			assert.Equal(t, "lion", cfg.Connection.Password)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "config file not found")

	_, err = Load(writeFile(t, "bad.toml", "[client\n"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = Load(writeFile(t, "bad.yaml", "client: [unterminated\n"))
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoadFromEnv(t *testing.T) {
	path := writeFile(t, "custom.toml", "[connection]\naddress = \"ORCL\"\nusername = \"scott\"\n")
	t.Setenv(EnvVar, path)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "ORCL", cfg.Connection.Address)
}

func TestLoadFromEnvNoFile(t *testing.T) {
	t.Setenv(EnvVar, "")
	t.Chdir(t.TempDir())

	_, err := LoadFromEnv()
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestValidate(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection.address is required")
	assert.ErrorContains(t, err, "connection.username is required")
}
