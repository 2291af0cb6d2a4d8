// Package discount loads, imports and validates discount codes.
package discount

import (
	"context"

	"freshkart/internal/model"
)

// Code length bounds, inclusive.
const (
	MinCodeLength = 4
	MaxCodeLength = 20
)

// Validator prices a discount code against an order subtotal.
type Validator interface {
	// Validate returns the discount in minor units for subtotal, or
	// model.ErrInvalidDiscount when the code cannot be applied.
	Validate(ctx context.Context, code string, subtotal int64) (int64, error)
}

// CodeSet is a set of discount codes read from a code file.
type CodeSet interface {
	// Contains checks if a code exists in the set.
	Contains(code string) bool

	// Size returns the number of codes in the set.
	Size() int

	// Codes returns the codes in ascending order.
	Codes() []string
}

// Loader reads a gzipped code file.
type Loader interface {
	// Load reads a gzipped file with one code per line.
	Load(ctx context.Context, path string) (CodeSet, error)
}

// Store is the persistence the validator and importer need.
type Store interface {
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)
	UpsertCodes(ctx context.Context, codes []string, template model.DiscountRequest) (int, error)
}
