package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "desktopcli"
	keyringUser    = "api-token"
)

// TokenSource tells where the effective API token came from.
type TokenSource string

const (
	TokenNone    TokenSource = "none"
	TokenConfig  TokenSource = "config"
	TokenKeyring TokenSource = "keyring"
)

// ResolveToken returns the bearer token the server requires. A token from
// the config file or environment wins over the keyring entry.
func (c *Config) ResolveToken() (string, TokenSource, error) {
	if c.Server.Token != "" {
		return c.Server.Token, TokenConfig, nil
	}

	token, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", TokenNone, nil
	}
	if err != nil {
		return "", TokenNone, fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, TokenKeyring, nil
}

// StoreToken saves token in the OS keyring.
func StoreToken(token string) error {
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// ClearToken removes the keyring entry. It reports false when none existed.
func ClearToken() (bool, error) {
	err := keyring.Delete(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete token: %w", err)
	}
	return true, nil
}

// GenerateToken returns a random 32-byte hex token.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
