package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrCredentialsNotFound   = errors.New("credentials file not found")
	ErrCredentialsMalformed  = errors.New("credentials file is not valid JSON")
	ErrCredentialsMissingKey = errors.New("credentials file is missing a key")
)

// Credentials are the Last.fm account and API application secrets.
type Credentials struct {
	APIKey       string `koanf:"api_key"`
	APISecret    string `koanf:"api_secret"`
	Username     string `koanf:"username"`
	PasswordHash string `koanf:"password_hash"` // md5 of the account password
	SessionKey   string `koanf:"session_key"`   // optional, skips the password login
}

var requiredKeys = []string{"api_key", "api_secret", "username", "password_hash"}

// LoadCredentials reads the credentials JSON file at path.
func LoadCredentials(path string) (*Credentials, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialsNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCredentialsMalformed, path, err)
	}

	for _, key := range requiredKeys {
		if k.String(key) == "" {
			return nil, fmt.Errorf("%w: %s in %s", ErrCredentialsMissingKey, key, path)
		}
	}

	creds := &Credentials{}
	if err := k.Unmarshal("", creds); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCredentialsMalformed, path, err)
	}
	return creds, nil
}
