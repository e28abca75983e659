package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedKey(t *testing.T) {
	t.Helper()
	orig := masterKey
	key := bytes.Repeat([]byte{7}, 32)
	masterKey = func() ([]byte, error) { return key, nil }
	t.Cleanup(func() { masterKey = orig })
}

func TestLoadFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silver", "config.toml")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	again, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxRows, again.MaxRows)
	assert.Equal(t, cfg.Keys, again.Keys)
}

func TestLoadFileBackfillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_url = \"http://db-gw:9000\"\nmax_rows = 50\n"), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://db-gw:9000", cfg.APIURL)
	assert.Equal(t, 50, cfg.MaxRows)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, 20, cfg.ColumnWidth)
	assert.Equal(t, DefaultConfig().Theme, cfg.Theme)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "search_debounce_ms = 300")
}

func TestLoadFileRejectsInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_rows = ["), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://sql.example.com")
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "https://sql.example.com", cfg.APIURL)
}

func TestTokenIsStoredEncrypted(t *testing.T) {
	fixedKey(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.SetAPIToken("s3cret-token")
	require.NoError(t, cfg.SaveFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "s3cret-token")
	assert.Contains(t, string(data), "api_token")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret-token", loaded.APIToken)
}

func TestTokenUnavailableWithoutKeyring(t *testing.T) {
	fixedKey(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.SetAPIToken("tok")
	require.NoError(t, cfg.SaveFile(path))

	masterKey = func() ([]byte, error) { return nil, errors.New("no keyring") }
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, loaded.APIToken)
}

func TestEncryptDecrypt(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 32)

	enc, err := Encrypt("hello", key)
	require.NoError(t, err)
	dec, err := Decrypt(enc, key)
	require.NoError(t, err)
	assert.Equal(t, "hello", dec)

	_, err = Decrypt(enc, bytes.Repeat([]byte{2}, 32))
	assert.Error(t, err)
	_, err = Decrypt("00", key)
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	keys := DefaultConfig().Keys
	assert.True(t, Matches(keys.Execute, "ctrl+r"))
	assert.True(t, Matches(keys.Execute, "f5"))
	assert.False(t, Matches(keys.Execute, "r"))
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "300ms", cfg.SearchDelay().String())
	assert.Equal(t, "2m0s", cfg.RequestTimeout().String())
}

func TestStoreAPITokenKeepsFileAPIURL(t *testing.T) {
	fixedKey(t)
	t.Setenv(EnvAPIURL, "https://session-only.example.com")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_url = \"http://db-gw:9000\"\n"), 0600))

	require.NoError(t, StoreAPITokenFile(path, "tok-123"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "http://db-gw:9000")
	assert.NotContains(t, string(data), "session-only")

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://db-gw:9000", loaded.APIURL)
	assert.Equal(t, "tok-123", loaded.APIToken)
}
