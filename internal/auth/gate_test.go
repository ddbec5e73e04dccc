package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	// sha256("password")
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", Digest("password"))
}

func TestSetAndVerify(t *testing.T) {
	g := NewGate(filepath.Join(t.TempDir(), "secrets", "password.txt"))

	exists, err := g.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, g.Set("hunter2"))

	exists, err = g.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := os.ReadFile(g.Path())
	require.NoError(t, err)
	assert.Equal(t, Digest("hunter2"), string(data), "sidecar holds only the hex digest")

	ok, err := g.Verify("hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Verify("hunter3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_ToleratesTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password.txt")
	require.NoError(t, os.WriteFile(path, []byte(Digest("pw")+"\n"), 0o600))

	ok, err := NewGate(path).Verify("pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_NoPassword(t *testing.T) {
	g := NewGate(filepath.Join(t.TempDir(), "password.txt"))
	_, err := g.Verify("anything")
	assert.ErrorIs(t, err, ErrNoPassword)
}

func TestSet_RejectsEmpty(t *testing.T) {
	g := NewGate(filepath.Join(t.TempDir(), "password.txt"))
	assert.ErrorIs(t, g.Set(""), ErrEmptyPassword)

	exists, err := g.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}
