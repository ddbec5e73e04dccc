// Package auth guards the ledger behind a single shared password. The
// sidecar file holds only the hex SHA-256 digest of that password.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoPassword means the sidecar file does not exist yet.
	ErrNoPassword = errors.New("no password has been set")
	// ErrAccessDenied means the supplied password did not match.
	ErrAccessDenied = errors.New("incorrect password, access denied")
	// ErrEmptyPassword is returned by Set for a blank password.
	ErrEmptyPassword = errors.New("password must not be empty")
)

// Gate checks passwords against the digest stored at path.
type Gate struct {
	path string
}

// NewGate creates a Gate for the sidecar file at path.
func NewGate(path string) *Gate {
	return &Gate{path: path}
}

// Path returns the sidecar file location.
func (g *Gate) Path() string {
	return g.path
}

// Exists reports whether a password has been set.
func (g *Gate) Exists() (bool, error) {
	_, err := os.Stat(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking password file: %w", err)
	}
	return true, nil
}

// Set replaces the stored digest with the digest of password.
func (g *Gate) Set(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("creating password directory: %w", err)
	}
	if err := os.WriteFile(g.path, []byte(Digest(password)), 0o600); err != nil {
		return fmt.Errorf("writing password file: %w", err)
	}
	return nil
}

// Verify reports whether password matches the stored digest.
func (g *Gate) Verify(password string) (bool, error) {
	data, err := os.ReadFile(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, ErrNoPassword
	}
	if err != nil {
		return false, fmt.Errorf("reading password file: %w", err)
	}
	stored := strings.ToLower(strings.TrimSpace(string(data)))
	given := Digest(password)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1, nil
}

// Digest returns the lowercase hex SHA-256 of password.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
