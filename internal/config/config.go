// Package config handles persistent user configuration for ec2kit.
//
// Configuration is stored as JSON at ~/.config/ec2kit/config.json (or the
// platform-equivalent path returned by os.UserConfigDir). Every setting is
// optional; unset keys resolve to the defaults in keys.go.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	appDir   = "ec2kit"
	fileName = "config.json"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	Region                   string `json:"region,omitempty"`
	KeyName                  string `json:"key_name,omitempty"`
	SecurityGroup            string `json:"security_group,omitempty"`
	SecurityGroupDescription string `json:"security_group_description,omitempty"`
	SSHPort                  string `json:"ssh_port,omitempty"`
	SSHCIDR                  string `json:"ssh_cidr,omitempty"`
	ImageID                  string `json:"image_id,omitempty"`
	InstanceName             string `json:"instance_name,omitempty"`
	FallbackType             string `json:"fallback_type,omitempty"`
	SSHUser                  string `json:"ssh_user,omitempty"`
	WaitTimeout              string `json:"wait_timeout,omitempty"`
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to the given path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// Value returns the effective value for the named key: the stored value if
// set, otherwise the key's default. Unknown keys return "".
func (c *Config) Value(name string) string {
	spec := Lookup(name)
	if spec == nil {
		return ""
	}
	if v := spec.Get(c); v != "" {
		return v
	}
	return spec.Default
}
