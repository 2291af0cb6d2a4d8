package model

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType selects how a discount value is applied.
type DiscountType string

const (
	// DiscountTypePercentage values are whole percent.
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFlat values are minor units.
	DiscountTypeFlat DiscountType = "flat"
)

// DiscountStatus is the admin-managed state of a discount code.
type DiscountStatus string

const (
	DiscountStatusActive   DiscountStatus = "active"
	DiscountStatusInactive DiscountStatus = "inactive"
	DiscountStatusExpired  DiscountStatus = "expired"
)

// DiscountCode is a redeemable code. Money fields are minor units.
type DiscountCode struct {
	ID          uuid.UUID      `json:"id"`
	Code        string         `json:"code"`
	Description string         `json:"description"`
	Type        DiscountType   `json:"type"`
	Value       int64          `json:"value"`
	MinOrder    int64          `json:"minOrder"`
	MaxDiscount *int64         `json:"maxDiscount,omitempty"`
	UsageLimit  *int           `json:"usageLimit,omitempty"`
	UsedCount   int            `json:"usedCount"`
	Status      DiscountStatus `json:"status"`
	StartsAt    *time.Time     `json:"startsAt,omitempty"`
	EndsAt      *time.Time     `json:"endsAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// DiscountRequest creates or updates a discount code.
type DiscountRequest struct {
	Code        string         `json:"code" validate:"required,min=4,max=20,alphanum"`
	Description string         `json:"description"`
	Type        DiscountType   `json:"type" validate:"required,oneof=percentage flat"`
	Value       int64          `json:"value" validate:"gt=0"`
	MinOrder    int64          `json:"minOrder" validate:"gte=0"`
	MaxDiscount *int64         `json:"maxDiscount" validate:"omitempty,gt=0"`
	UsageLimit  *int           `json:"usageLimit" validate:"omitempty,gt=0"`
	Status      DiscountStatus `json:"status" validate:"omitempty,oneof=active inactive expired"`
	StartsAt    *time.Time     `json:"startsAt"`
	EndsAt      *time.Time     `json:"endsAt"`
}

// DiscountImportRequest bulk-imports codes from gzipped files.
// Every imported code takes the template's terms.
type DiscountImportRequest struct {
	Files    []string        `json:"files" validate:"required,min=1"`
	Template DiscountRequest `json:"template" validate:"-"`
}

// DiscountImportResult reports a bulk import.
type DiscountImportResult struct {
	Files    int `json:"files"`
	Codes    int `json:"codes"`
	Upserted int `json:"upserted"`
}

// VendorStatus is the admin-managed state of a vendor.
type VendorStatus string

const (
	VendorStatusActive    VendorStatus = "active"
	VendorStatusInactive  VendorStatus = "inactive"
	VendorStatusSuspended VendorStatus = "suspended"
)

// Vendor supplies products.
type Vendor struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	Status    VendorStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// VendorRequest creates or updates a vendor.
type VendorRequest struct {
	Name   string       `json:"name" validate:"required,max=200"`
	Email  string       `json:"email" validate:"omitempty,email"`
	Phone  string       `json:"phone"`
	Status VendorStatus `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

// SubscriptionStatus is the admin-managed state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a recurring delivery of a product.
type Subscription struct {
	ID             uuid.UUID          `json:"id"`
	UserID         uuid.UUID          `json:"userId"`
	ProductID      uuid.UUID          `json:"productId"`
	Quantity       int                `json:"quantity"`
	Frequency      string             `json:"frequency"`
	Status         SubscriptionStatus `json:"status"`
	NextDeliveryAt *time.Time         `json:"nextDeliveryAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// SubscriptionStatusRequest changes a subscription's status.
type SubscriptionStatusRequest struct {
	Status SubscriptionStatus `json:"status" validate:"required,oneof=active paused cancelled"`
}

// InventoryLog records a stock movement.
type InventoryLog struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"productId"`
	Change     int       `json:"change"`
	StockAfter int       `json:"stockAfter"`
	Reason     string    `json:"reason"`
	Reference  string    `json:"reference,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// InventoryAdjustRequest changes a product's stock by a signed amount.
type InventoryAdjustRequest struct {
	Change int    `json:"change" validate:"ne=0"`
	Reason string `json:"reason" validate:"required,max=100"`
}

// Inventory log reasons written by the application.
const (
	InventoryReasonOrder = "order"
)
