package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	Token        string
	TokenFile    string
	ClientID     string
	ClientIDFile string
	Output       string
	Verbose      bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("VALNOR_SERVER", "http://localhost:8080"),
		Token:        os.Getenv("VALNOR_TOKEN"),
		TokenFile:    getEnvOrDefault("VALNOR_TOKEN_FILE", defaultStateFile("token")),
		ClientID:     os.Getenv("VALNOR_CLIENT_ID"),
		ClientIDFile: getEnvOrDefault("VALNOR_CLIENT_ID_FILE", defaultStateFile("client_id")),
		Output:       "text",
		Verbose:      false,
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token
	return writeStateFile(c.TokenFile, token)
}

// ClearToken forgets the saved token
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// LoadClientID reads the client ID from file, minting and saving one on first use.
// The server binds session modes and tokens to this ID, so it must stay stable.
func (c *Config) LoadClientID() error {
	if c.ClientID != "" {
		return nil
	}

	data, err := os.ReadFile(c.ClientIDFile)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			c.ClientID = id
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	c.ClientID = uuid.NewString()
	return writeStateFile(c.ClientIDFile, c.ClientID)
}

func writeStateFile(path, value string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(value), 0600)
}

func defaultStateFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".valnor", name)
	}
	return filepath.Join(home, ".valnor", name)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
