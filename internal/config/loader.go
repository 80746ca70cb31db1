package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the default environment file name.
const DefaultEnvFile = ".env"

// Environment variable names.
const (
	EnvUsername   = "USERNAME"
	EnvPassword   = "PASSWORD"
	EnvSubdomains = "SUBDOMAINS"
)

// FindEnvFile searches for the environment file in the following order:
// 1. If envPath is specified, use it directly
// 2. Look for .env in the current directory
// 3. Look for .env in the XDG config directory (~/.config/edureport/.env)
// 4. Look for .env in the user's home directory
//
// Returns the path to the file if found, or empty string if not found.
func FindEnvFile(envPath string) string {
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultEnvFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), DefaultEnvFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultEnvFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// LoadEnvFile loads variables from the environment file into the process
// environment. Values from the file override variables that are already
// set, so a .env next to the binary always wins over a stale shell export.
//
// If envPath was given explicitly and does not exist, ErrEnvFileNotFound
// is returned. If nothing was given and nothing was found, LoadEnvFile
// returns "" and nil: the process environment alone is used.
func LoadEnvFile(envPath string) (string, error) {
	path := FindEnvFile(envPath)
	if path == "" {
		if envPath != "" {
			return "", fmt.Errorf("%w: %s", ErrEnvFileNotFound, envPath)
		}
		return "", nil
	}

	if err := godotenv.Overload(path); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return path, nil
}

// LoadFromEnv fills credentials and targets from the given lookup function.
// lookup is usually os.Getenv; tests pass a map-backed function.
// The values are not validated here; call Validate afterwards.
func (c *Config) LoadFromEnv(lookup func(string) string) {
	c.Credentials = Credentials{
		Username: lookup(EnvUsername),
		Password: lookup(EnvPassword),
	}
	c.Targets = ParseTargets(lookup(EnvSubdomains))
}

// ParseDate parses a DD.MM.YYYY date as given to --date.
// The result is at midnight in the local time zone.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}
