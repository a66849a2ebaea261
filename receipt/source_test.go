package receipt

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt")
	require.NoError(t, os.WriteFile(path, []byte("raw-receipt"), 0o600))

	data, err := NewFileSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte("raw-receipt"), data)
}

func TestFileSource_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := NewFileSource(path).Load(context.Background())
	require.ErrorIs(t, err, ErrNoReceipt)
}

func TestFileSource_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := NewFileSource(path).Load(context.Background())
	require.ErrorIs(t, err, ErrNoReceipt)
}
