package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalogue item. Price is in minor currency units (paisa).
type Product struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	CategoryID    *uuid.UUID `json:"categoryId,omitempty"`
	SubcategoryID *uuid.UUID `json:"subcategoryId,omitempty"`
	VendorID      *uuid.UUID `json:"vendorId,omitempty"`
	Price         int64      `json:"price"`
	Unit          string     `json:"unit"`
	ImageURL      string     `json:"imageUrl"`
	Stock         int        `json:"stock"`
	Rating        float64    `json:"rating"`
	ReviewCount   int        `json:"reviewCount"`
	Featured      bool       `json:"featured"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Category groups products.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Subcategory narrows a category.
type Subcategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"categoryId"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ProductRequest is the admin payload for creating or updating a product.
// Price is in minor units.
type ProductRequest struct {
	Name          string     `json:"name" validate:"required,max=200"`
	Slug          string     `json:"slug" validate:"required,max=200"`
	Description   string     `json:"description"`
	CategoryID    *uuid.UUID `json:"categoryId"`
	SubcategoryID *uuid.UUID `json:"subcategoryId"`
	VendorID      *uuid.UUID `json:"vendorId"`
	Price         int64      `json:"price" validate:"gte=0"`
	Unit          string     `json:"unit"`
	ImageURL      string     `json:"imageUrl"`
	Stock         int        `json:"stock" validate:"gte=0"`
	Featured      bool       `json:"featured"`
	Active        *bool      `json:"active"`
}

// CategoryRequest is the admin payload for a category.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"required,max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	SortOrder   int    `json:"sortOrder"`
}

// ProductListResponse is returned by the catalogue listing.
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}
