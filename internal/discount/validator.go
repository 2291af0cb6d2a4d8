package discount

import (
	"context"
	"errors"
	"strings"
	"time"

	"freshkart/internal/model"

	"github.com/rs/zerolog"
)

// storeValidator implements Validator against the discount_codes table.
type storeValidator struct {
	store  Store
	now    func() time.Time
	logger zerolog.Logger
}

// NewValidator creates a validator backed by store.
func NewValidator(store Store, logger zerolog.Logger) Validator {
	return &storeValidator{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "discount-validator").Logger(),
	}
}

func (v *storeValidator) Validate(ctx context.Context, code string, subtotal int64) (int64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !ValidCode(code) {
		v.logger.Debug().Str("code", code).Msg("discount code malformed")
		return 0, model.ErrInvalidDiscount
	}

	dc, err := v.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrDiscountNotFound) {
			return 0, model.ErrInvalidDiscount
		}
		return 0, err
	}

	amount, ok := Amount(*dc, subtotal, v.now())
	if !ok {
		v.logger.Debug().
			Str("code", code).
			Str("status", string(dc.Status)).
			Int64("subtotal", subtotal).
			Msg("discount code not applicable")
		return 0, model.ErrInvalidDiscount
	}

	return amount, nil
}

// Amount prices dc against subtotal at now. It reports false when the code
// is inactive, outside its validity window, exhausted or below minimum order.
func Amount(dc model.DiscountCode, subtotal int64, now time.Time) (int64, bool) {
	if dc.Status != model.DiscountStatusActive {
		return 0, false
	}
	if dc.StartsAt != nil && now.Before(*dc.StartsAt) {
		return 0, false
	}
	if dc.EndsAt != nil && now.After(*dc.EndsAt) {
		return 0, false
	}
	if dc.UsageLimit != nil && dc.UsedCount >= *dc.UsageLimit {
		return 0, false
	}
	if subtotal < dc.MinOrder || subtotal <= 0 {
		return 0, false
	}

	var amount int64
	switch dc.Type {
	case model.DiscountTypePercentage:
		amount = subtotal * dc.Value / 100
		if dc.MaxDiscount != nil && amount > *dc.MaxDiscount {
			amount = *dc.MaxDiscount
		}
	case model.DiscountTypeFlat:
		amount = dc.Value
	default:
		return 0, false
	}

	if amount > subtotal {
		amount = subtotal
	}
	return amount, true
}
