package memory

import (
	"context"
	"sync"

	"github.com/witworkapp/storekit-go/receipt"
)

// Source holds a receipt in memory. Used in tests and wherever the platform
// purchase flow hands the receipt over directly.
type Source struct {
	mu   sync.RWMutex
	data []byte
}

func NewSource(data []byte) *Source {
	return &Source{data: data}
}

func (s *Source) SetReceipt(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data
}

func (s *Source) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.data) == 0 {
		return nil, receipt.ErrNoReceipt
	}

	cloned := make([]byte, len(s.data))
	copy(cloned, s.data)
	return cloned, nil
}
