package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ndk/internal/config"
)

func TestConfigShow_Defaults(t *testing.T) {
	out, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, config.LabelsSequential, cfg.Labels)
	assert.Empty(t, cfg.Database)
}

func TestConfigShow_FromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ndk.yaml", "db: proofs.db\nlabels: uuid\n")
	t.Setenv("NDK_CONCURRENCY", "3")

	out, _, err := runCLI(t, "config", "show", "--config", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   config.Config `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "proofs.db", resp.Data.Database)
	assert.Equal(t, config.LabelsUUID, resp.Data.Labels)
	assert.Equal(t, 3, resp.Data.Concurrency)
	assert.Equal(t, "json", resp.Data.Format)
}

func TestConfigShow_MissingExplicitFile(t *testing.T) {
	_, _, err := runCLI(t, "config", "show", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "ndk.yaml")

	out, _, err := runCLI(t, "config", "init", "--path", path, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "debug", cfg.LogLevel)

	out, _, err = runCLI(t, "config", "init", "--path", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "already exists")

	_, _, err = runCLI(t, "config", "init", "--path", path, "--force")
	require.NoError(t, err)
}

func TestConfigInit_DefaultPath(t *testing.T) {
	_, _, err := runCLI(t, "config", "init")
	require.NoError(t, err)

	path, err := config.UserConfigPath()
	require.NoError(t, err)
	assert.FileExists(t, path)
}
