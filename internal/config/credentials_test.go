package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCredentials = `{
	"api_key": "key",
	"api_secret": "secret",
	"username": "user",
	"password_hash": "5f4dcc3b5aa765d61d8327deb882cf99"
}`

func TestLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	writeFile(t, path, validCredentials)

	creds, err := LoadCredentials(path)
	require.NoError(t, err)

	assert.Equal(t, "key", creds.APIKey)
	assert.Equal(t, "secret", creds.APISecret)
	assert.Equal(t, "user", creds.Username)
	assert.Equal(t, "5f4dcc3b5aa765d61d8327deb882cf99", creds.PasswordHash)
	assert.Empty(t, creds.SessionKey)
}

func TestLoadCredentials_SessionKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	writeFile(t, path, `{"api_key":"k","api_secret":"s","username":"u","password_hash":"h","session_key":"sk"}`)

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "sk", creds.SessionKey)
}

func TestLoadCredentials_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		wantMsg string
	}{
		{"malformed", `{"api_key": `, ErrCredentialsMalformed, ""},
		{"not an object", `["api_key"]`, ErrCredentialsMalformed, ""},
		{"missing api_key", `{"api_secret":"s","username":"u","password_hash":"h"}`, ErrCredentialsMissingKey, "api_key"},
		{"missing api_secret", `{"api_key":"k","username":"u","password_hash":"h"}`, ErrCredentialsMissingKey, "api_secret"},
		{"missing username", `{"api_key":"k","api_secret":"s","password_hash":"h"}`, ErrCredentialsMissingKey, "username"},
		{"empty password_hash", `{"api_key":"k","api_secret":"s","username":"u","password_hash":""}`, ErrCredentialsMissingKey, "password_hash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "auth.json")
			writeFile(t, path, tt.content)

			_, err := LoadCredentials(path)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), path)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadCredentials_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")

	_, err := LoadCredentials(path)
	require.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.Contains(t, err.Error(), path)
}
