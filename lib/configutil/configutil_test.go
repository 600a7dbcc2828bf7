package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	ApiBaseUrl string `json:"api_base_url"`
	RawBaseUrl string `json:"raw_base_url"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0o644)
	require.NoError(t, err)
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "tidytues.json5")
	writeFile(t, name, `{
		// comments are allowed
		api_base_url: "https://api.example.com",
		raw_base_url: "https://raw.example.com",
	}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.ApiBaseUrl)
	require.Equal(t, "https://raw.example.com", cfg.RawBaseUrl)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "tidytues.json5")
	writeFile(t, name, `{api_base_url: "https://api.example.com", raw_base_url: "https://raw.example.com"}`)
	writeFile(t, filepath.Join(dir, "tidytues.local.json5"), `{api_base_url: "http://localhost:9999"}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9999", cfg.ApiBaseUrl)
	// untouched keys survive the merge
	require.Equal(t, "https://raw.example.com", cfg.RawBaseUrl)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "nope.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tidytues.local.json5"), `{api_base_url: "http://localhost:1234"}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "tidytues.json5"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:1234", cfg.ApiBaseUrl)
}
