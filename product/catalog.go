package product

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoProducts means the catalog returned nothing for the requested
// identifiers.
var ErrNoProducts = errors.New("no products retrieved")

// Product is one purchasable catalog entry.
type Product struct {
	ProductID   string
	Title       string
	Description string
	Price       decimal.Decimal
	Currency    string
}

// Catalog looks up purchasable products by identifier.
type Catalog interface {
	RetrieveProducts(ctx context.Context, productIDs []string) ([]Product, error)
}
