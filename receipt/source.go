package receipt

import (
	"context"
	"errors"
	"os"
)

// ErrNoReceipt means no raw receipt exists to validate. Surfaced before any
// network call is attempted.
var ErrNoReceipt = errors.New("no receipt available")

// Source provides the raw purchase receipt for the current install.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileSource reads the receipt from a file path, mirroring the platform's
// app store receipt location.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoReceipt
	} else if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, ErrNoReceipt
	}
	return data, nil
}
