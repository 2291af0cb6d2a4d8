package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AddressType labels a saved address.
type AddressType string

const (
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

// Address is a saved delivery address. At most one per user is default.
type Address struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Name      string      `json:"name"`
	Phone     string      `json:"phone"`
	Line1     string      `json:"line1"`
	Line2     string      `json:"line2,omitempty"`
	City      string      `json:"city"`
	State     string      `json:"state"`
	Pincode   string      `json:"pincode"`
	Landmark  string      `json:"landmark,omitempty"`
	Type      AddressType `json:"type"`
	IsDefault bool        `json:"isDefault"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Format renders the address as the single-line snapshot stored on orders.
func (a Address) Format() string {
	parts := []string{a.Line1}
	if a.Line2 != "" {
		parts = append(parts, a.Line2)
	}
	if a.Landmark != "" {
		parts = append(parts, "Near "+a.Landmark)
	}
	parts = append(parts, a.City, a.State+" - "+a.Pincode)
	return strings.Join(parts, ", ")
}

// AddressRequest creates or replaces an address.
type AddressRequest struct {
	Name      string      `json:"name" validate:"required,max=100"`
	Phone     string      `json:"phone" validate:"required,min=10,max=15"`
	Line1     string      `json:"line1" validate:"required"`
	Line2     string      `json:"line2"`
	City      string      `json:"city" validate:"required"`
	State     string      `json:"state" validate:"required"`
	Pincode   string      `json:"pincode" validate:"required,len=6,numeric"`
	Landmark  string      `json:"landmark"`
	Type      AddressType `json:"type" validate:"omitempty,oneof=home work other"`
	IsDefault bool        `json:"isDefault"`
}

// ToAddress builds an Address for userID from the request.
func (r AddressRequest) ToAddress(userID uuid.UUID) Address {
	t := r.Type
	if t == "" {
		t = AddressTypeHome
	}
	return Address{
		UserID:    userID,
		Name:      r.Name,
		Phone:     r.Phone,
		Line1:     r.Line1,
		Line2:     r.Line2,
		City:      r.City,
		State:     r.State,
		Pincode:   r.Pincode,
		Landmark:  r.Landmark,
		Type:      t,
		IsDefault: r.IsDefault,
	}
}

// Profile holds customer details and loyalty balance.
type Profile struct {
	UserID        uuid.UUID `json:"userId"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	LoyaltyPoints int       `json:"loyaltyPoints"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProfileRequest updates profile details.
type ProfileRequest struct {
	FullName string `json:"fullName" validate:"max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,min=10,max=15"`
}

// Review is a product review. One per (user, product, order).
type Review struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"productId"`
	UserID    uuid.UUID  `json:"userId"`
	OrderID   *uuid.UUID `json:"orderId,omitempty"`
	Rating    int        `json:"rating"`
	Title     string     `json:"title"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ReviewRequest creates a review.
type ReviewRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	OrderID   *uuid.UUID `json:"order_id"`
	Rating    int        `json:"rating" validate:"required,min=1,max=5"`
	Title     string     `json:"title" validate:"max=200"`
	Comment   string     `json:"comment" validate:"max=2000"`
}

// ReviewUpdateRequest edits an existing review.
type ReviewUpdateRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title" validate:"max=200"`
	Comment string `json:"comment" validate:"max=2000"`
}

// WishlistRequest adds a product to the wishlist.
type WishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// WishlistItem is a wishlisted product.
type WishlistItem struct {
	Product Product   `json:"product"`
	AddedAt time.Time `json:"addedAt"`
}
