package memory

import (
	"context"
	"sync"

	"github.com/witworkapp/storekit-go/product"
)

// Catalog is a fixed in-memory catalog. Identifiers without an entry are
// skipped, matching platform catalog behavior for invalid product IDs.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]product.Product
}

func NewCatalog(products ...product.Product) *Catalog {
	byID := make(map[string]product.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}
	return &Catalog{products: byID}
}

func (c *Catalog) RetrieveProducts(ctx context.Context, productIDs []string) ([]product.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var retrieved []product.Product
	for _, id := range productIDs {
		if p, ok := c.products[id]; ok {
			retrieved = append(retrieved, p)
		}
	}

	if len(retrieved) == 0 {
		return nil, product.ErrNoProducts
	}
	return retrieved, nil
}
