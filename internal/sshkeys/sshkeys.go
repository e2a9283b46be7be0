// Package sshkeys locates and writes the private key files that pair with
// EC2 key pairs.
package sshkeys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PrivateKeyPath returns <dir>/<name>.pem. An empty dir means the working
// directory; a leading ~/ is expanded.
func PrivateKeyPath(dir, name string) (string, error) {
	dir, err := ExpandHomePath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".pem"), nil
}

// ExpandHomePath expands a leading ~/ to the user's home directory.
func ExpandHomePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}

// ValidatePrivateKey performs basic validation on PEM key material.
func ValidatePrivateKey(material string) error {
	material = strings.TrimSpace(material)
	if material == "" {
		return errors.New("key material is empty")
	}
	if !strings.HasPrefix(material, "-----BEGIN") || !strings.Contains(material, "PRIVATE KEY-----") {
		return errors.New("key material is not a PEM private key")
	}
	return nil
}

// WritePrivateKey writes material to path with mode 0400, creating the
// parent directory. An existing file is replaced only when overwrite is set.
func WritePrivateKey(path, material string, overwrite bool) error {
	if err := ValidatePrivateKey(material); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if overwrite {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o400)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strings.TrimSpace(material) + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
