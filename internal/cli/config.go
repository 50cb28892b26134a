package cli

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	Token        string
	TokenFile    string
	IdentityFile string
	Output       string
	Verbose      bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("ROOMD_SERVER", "http://localhost:8080"),
		Token:        os.Getenv("ROOMD_TOKEN"),
		TokenFile:    getEnvOrDefault("ROOMD_TOKEN_FILE", defaultStateFile("token")),
		IdentityFile: defaultStateFile("identity"),
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
		if os.IsNotExist(err) {
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

// EnsureToken returns the current session token, generating and saving a
// fresh one if this client has none yet
func (c *Config) EnsureToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := "sess_" + hex.EncodeToString(b)

	if err := c.SaveToken(token); err != nil {
		return "", err
	}
	return token, nil
}

// LoadIdentityID reads the saved identity id, or empty if none
func (c *Config) LoadIdentityID() string {
	data, err := os.ReadFile(c.IdentityFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveIdentityID saves the claimed identity id
func (c *Config) SaveIdentityID(id string) error {
	return writeStateFile(c.IdentityFile, id)
}

func writeStateFile(path, contents string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0600)
}

func defaultStateFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".roomd", name)
	}
	return filepath.Join(home, ".roomd", name)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
