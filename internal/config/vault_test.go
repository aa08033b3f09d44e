package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"atscheck/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *errors.Logger {
	return errors.NewLoggerTo(io.Discard, slog.LevelDebug)
}

type fakeSecrets struct {
	strings map[string]string
	err     error
}

func (f fakeSecrets) GetStringSecret(path, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.strings[path+"#"+key]
	if !ok {
		return "", fmt.Errorf("key '%s' not found in secret %s", key, path)
	}
	return v, nil
}

func (f fakeSecrets) GetStringSliceSecret(path, key string) ([]string, error) {
	v, err := f.GetStringSecret(path, key)
	if err != nil {
		return nil, err
	}
	return splitKeys(v), nil
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{"int64", int64(3), 3, false},
		{"float64 from JSON", float64(7), 7, false},
		{"numeric string", "12", 12, false},
		{"bad string", "v2", 0, true},
		{"unsupported type", true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVersionValue(tt.input, "secret/data/x")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseKVv2(t *testing.T) {
	secret, err := parseKVv2(map[string]any{
		"data":     map[string]any{"api_key": "abc"},
		"metadata": map[string]any{"version": float64(4)},
	}, "secret/data/semantic")
	require.NoError(t, err)
	assert.Equal(t, "abc", secret.Data["api_key"])
	assert.Equal(t, int64(4), secret.Version)

	_, err = parseKVv2(map[string]any{"api_key": "abc"}, "secret/data/v1")
	assert.ErrorContains(t, err, "missing 'data' field")

	_, err = parseKVv2(map[string]any{"data": map[string]any{}}, "secret/data/v1")
	assert.ErrorContains(t, err, "missing 'metadata' field")
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"})
		require.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		require.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		assert.ErrorContains(t, err, "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{})
		assert.ErrorContains(t, err, "vault token is required")
	})
}

func TestLoadSecrets(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Secrets: VaultSecrets{
		APIKeys:     "secret/data/atscheck/server",
		SemanticKey: "secret/data/atscheck/semantic",
	}}}
	client := fakeSecrets{strings: map[string]string{
		"secret/data/atscheck/server#keys":      "one, two,,three",
		"secret/data/atscheck/semantic#api_key": "gemini-key",
	}}

	require.NoError(t, loadSecrets(client, cfg, testLogger()))
	assert.Equal(t, []string{"one", "two", "three"}, cfg.Server.APIKeys)
	assert.Equal(t, "gemini-key", cfg.Semantic.APIKey)
}

func TestLoadSecretsKeepsExistingValuesWhenPathsUnset(t *testing.T) {
	cfg := &Config{Semantic: SemanticConfig{APIKey: "from-env"}}
	require.NoError(t, loadSecrets(fakeSecrets{err: fmt.Errorf("unreachable")}, cfg, testLogger()))
	assert.Equal(t, "from-env", cfg.Semantic.APIKey)
}

func TestLoadSecretsPropagatesErrors(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Secrets: VaultSecrets{SemanticKey: "secret/data/missing"}}}
	err := loadSecrets(fakeSecrets{}, cfg, testLogger())
	assert.ErrorContains(t, err, "failed to load semantic API key from vault")
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, ApplyVaultSecrets(cfg, testLogger()))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****6789", maskSecret("abcdef-123456789"))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "", maskSecret(""))
}
