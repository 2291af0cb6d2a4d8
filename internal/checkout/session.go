// Package checkout drives a single checkout from cart to placed order.
package checkout

import (
	"context"
	"errors"
	"time"

	"freshkart/internal/cart"
	"freshkart/internal/discount"
	"freshkart/internal/model"
	"freshkart/internal/payment"
	"freshkart/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is a checkout session state.
type State string

const (
	StateEnteringDetails State = "entering-details"
	StateAddressSelected State = "address-selected"
	StatePaymentSelected State = "payment-selected"
	StateSubmitting      State = "submitting"
	StateSuccess         State = "success"
	// StateFailed means the payment was verified but the order could not be
	// written. CompletePayment may be retried.
	StateFailed State = "failed"
)

var (
	ErrEmptyCart          = model.NewValidationError("cart is empty")
	ErrInvalidTransition  = model.NewDomainError(model.ErrCodeInvalidTransition, "action not allowed in the current checkout state")
	ErrAddressNotSelected = model.NewValidationError("delivery address is required")
	ErrPaymentCancelled   = model.NewDomainError(model.ErrCodeValidation, "payment was cancelled")
	ErrInvalidMethod      = model.NewValidationError("payment method must be online or cod")
)

// AddressBook reads and stores a user's saved addresses.
type AddressBook interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Create(ctx context.Context, userID uuid.UUID, req model.AddressRequest) (*model.Address, error)
}

// Payments creates and reads gateway orders and checks completion
// signatures.
type Payments interface {
	CreateOrder(ctx context.Context, amount int64, receipt string) (*payment.Order, error)
	FetchOrder(ctx context.Context, gatewayOrderID string) (*payment.Order, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
	KeyID() string
}

// OrderPlacer persists an order.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)
}

// Deps are the collaborators of a session. Discounts may be nil.
type Deps struct {
	Addresses AddressBook
	Payments  Payments
	Orders    OrderPlacer
	Discounts discount.Validator
	Logger    zerolog.Logger
}

// Customer identifies who is checking out. UserID is nil for guests.
type Customer struct {
	UserID *uuid.UUID
	Name   string
	Email  string
	Phone  string
}

// PaymentIntent is what the hosted payment modal is opened with.
type PaymentIntent struct {
	KeyID          string `json:"key_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
}

// PaymentResult is returned by the hosted payment modal on success.
type PaymentResult struct {
	GatewayOrderID string `json:"razorpay_order_id"`
	PaymentID      string `json:"razorpay_payment_id"`
	Signature      string `json:"razorpay_signature"`
}

// Session is one checkout. It is not safe for concurrent use.
type Session struct {
	deps     Deps
	policy   pricing.Policy
	customer Customer
	now      func() time.Time
	logger   zerolog.Logger

	state        State
	cart         *cart.Cart
	saved        []model.Address
	address      *model.Address
	method       model.PaymentMethod
	discountCode string
	discount     int64
	notes        string
	orderNumber  string
	intent       *PaymentIntent
	verified     *PaymentResult
	order        *model.Order
	err          string
}

// NewSession creates a session in StateEnteringDetails.
func NewSession(deps Deps, policy pricing.Policy, customer Customer) *Session {
	return &Session{
		deps:     deps,
		policy:   policy,
		customer: customer,
		now:      time.Now,
		logger:   deps.Logger.With().Str("component", "checkout").Logger(),
		state:    StateEnteringDetails,
	}
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Err is the message of the last failure, if any.
func (s *Session) Err() string { return s.err }

// Order is the placed order once the session reaches StateSuccess.
func (s *Session) Order() *model.Order { return s.order }

// Intent is the pending online payment, nil outside StateSubmitting.
func (s *Session) Intent() *PaymentIntent { return s.intent }

// Address is the selected delivery address, if any.
func (s *Session) Address() *model.Address { return s.address }

// SavedAddresses returns a copy of the customer's address book.
func (s *Session) SavedAddresses() []model.Address {
	return append([]model.Address(nil), s.saved...)
}

// Quote prices the cart with any applied discount.
func (s *Session) Quote() pricing.Quote {
	if s.cart == nil {
		return s.policy.Quote(0, 0)
	}
	return s.policy.Quote(s.cart.Subtotal(), s.discount)
}

// Start binds the session to c. Signed-in customers have their saved
// addresses loaded and the default one pre-selected.
func (s *Session) Start(ctx context.Context, c *cart.Cart) error {
	if s.state != StateEnteringDetails || s.cart != nil {
		return ErrInvalidTransition
	}
	if c == nil || c.IsEmpty() {
		return ErrEmptyCart
	}
	s.cart = c

	if s.customer.UserID == nil || s.deps.Addresses == nil {
		return nil
	}

	saved, err := s.deps.Addresses.List(ctx, *s.customer.UserID)
	if err != nil {
		return err
	}
	s.saved = saved
	for i := range saved {
		if saved[i].IsDefault {
			a := saved[i]
			s.address = &a
			s.state = StateAddressSelected
			break
		}
	}
	return nil
}

// SelectSavedAddress picks one of the customer's saved addresses.
func (s *Session) SelectSavedAddress(id uuid.UUID) error {
	if !s.canEditDetails() {
		return ErrInvalidTransition
	}
	for i := range s.saved {
		if s.saved[i].ID == id {
			a := s.saved[i]
			s.address = &a
			s.afterAddress()
			return nil
		}
	}
	return model.ErrAddressNotFound
}

// EnterAddress uses an ad hoc address. With save set and a signed-in
// customer the address is stored in the address book as well.
func (s *Session) EnterAddress(ctx context.Context, req model.AddressRequest, save bool) error {
	if !s.canEditDetails() {
		return ErrInvalidTransition
	}

	var addr model.Address
	if save && s.customer.UserID != nil && s.deps.Addresses != nil {
		created, err := s.deps.Addresses.Create(ctx, *s.customer.UserID, req)
		if err != nil {
			return err
		}
		addr = *created
		s.saved = append(s.saved, addr)
	} else {
		addr = req.ToAddress(uuid.Nil)
	}

	s.address = &addr
	s.afterAddress()
	return nil
}

// SelectPayment chooses how the order is paid.
func (s *Session) SelectPayment(method model.PaymentMethod) error {
	if s.state != StateAddressSelected && s.state != StatePaymentSelected {
		if s.state == StateEnteringDetails && s.cart != nil {
			return ErrAddressNotSelected
		}
		return ErrInvalidTransition
	}
	if !method.Valid() {
		return ErrInvalidMethod
	}
	s.method = method
	s.state = StatePaymentSelected
	return nil
}

// ApplyDiscount validates code against the cart subtotal. An empty code
// removes any applied discount.
func (s *Session) ApplyDiscount(ctx context.Context, code string) error {
	if s.cart == nil || !s.canEditDetails() {
		return ErrInvalidTransition
	}
	if code == "" {
		s.discountCode, s.discount = "", 0
		return nil
	}
	if s.deps.Discounts == nil {
		return model.ErrInvalidDiscount
	}
	amount, err := s.deps.Discounts.Validate(ctx, code, s.cart.Subtotal())
	if err != nil {
		return err
	}
	s.discountCode, s.discount = code, amount
	return nil
}

// SetNotes attaches delivery notes to the order.
func (s *Session) SetNotes(notes string) {
	s.notes = notes
}

// Submit places a cash-on-delivery order, or creates a gateway order and
// returns the intent for the hosted payment modal. On failure the session
// goes back to StatePaymentSelected with Err set.
func (s *Session) Submit(ctx context.Context) (*PaymentIntent, error) {
	if s.state != StatePaymentSelected {
		return nil, ErrInvalidTransition
	}
	s.state = StateSubmitting
	s.err = ""
	if s.orderNumber == "" {
		s.orderNumber = model.NewOrderNumber(s.now())
	}

	if s.method == model.PaymentMethodCOD {
		if err := s.place(ctx, model.PaymentStatusPending, nil); err != nil {
			return nil, s.fail(err)
		}
		return nil, nil
	}

	q := s.Quote()
	gwOrder, err := s.deps.Payments.CreateOrder(ctx, q.Total, s.orderNumber)
	if err != nil {
		return nil, s.fail(err)
	}

	s.intent = &PaymentIntent{
		KeyID:          s.deps.Payments.KeyID(),
		GatewayOrderID: gwOrder.ID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
		Receipt:        s.orderNumber,
	}
	s.logger.Info().
		Str("order_number", s.orderNumber).
		Str("gateway_order_id", gwOrder.ID).
		Int64("amount", gwOrder.Amount).
		Msg("awaiting online payment")
	return s.intent, nil
}

// Resume puts a session rebuilt from client input back into
// StateSubmitting for an intent created by an earlier Submit.
func (s *Session) Resume(intent PaymentIntent) error {
	if s.state != StatePaymentSelected || s.method != model.PaymentMethodOnline {
		return ErrInvalidTransition
	}
	s.intent = &intent
	s.orderNumber = intent.Receipt
	s.state = StateSubmitting
	return nil
}

// CompletePayment verifies the hosted modal's result and places the order
// as paid.
func (s *Session) CompletePayment(ctx context.Context, res PaymentResult) (*model.Order, error) {
	switch s.state {
	case StateSubmitting:
		if s.intent == nil {
			return nil, ErrInvalidTransition
		}
		if res.GatewayOrderID != s.intent.GatewayOrderID ||
			!s.deps.Payments.VerifySignature(res.GatewayOrderID, res.PaymentID, res.Signature) {
			return nil, s.fail(model.ErrInvalidSignature)
		}
		if err := s.confirmCharge(ctx, res.GatewayOrderID); err != nil {
			return nil, s.fail(err)
		}
		s.verified = &res
	case StateFailed:
		if s.verified == nil || *s.verified != res {
			return nil, ErrInvalidTransition
		}
	default:
		return nil, ErrInvalidTransition
	}

	if err := s.place(ctx, model.PaymentStatusPaid, s.verified); err != nil {
		s.state = StateFailed
		s.err = err.Error()
		s.logger.Error().Err(err).
			Str("order_number", s.orderNumber).
			Str("payment_id", res.PaymentID).
			Msg("verified payment could not be recorded")
		return nil, err
	}
	return s.order, nil
}

// confirmCharge checks that the gateway order the customer paid was created
// for this cart total and receipt. The cart may have changed since Submit.
func (s *Session) confirmCharge(ctx context.Context, gatewayOrderID string) error {
	gwOrder, err := s.deps.Payments.FetchOrder(ctx, gatewayOrderID)
	if err != nil {
		return err
	}

	total := s.Quote().Total
	if gwOrder.Amount != total || (gwOrder.Receipt != "" && gwOrder.Receipt != s.orderNumber) {
		s.logger.Warn().
			Str("order_number", s.orderNumber).
			Str("gateway_order_id", gatewayOrderID).
			Str("gateway_receipt", gwOrder.Receipt).
			Int64("charged", gwOrder.Amount).
			Int64("total", total).
			Msg("paid amount does not match checkout total")
		return model.ErrAmountMismatch
	}

	s.intent.Amount = gwOrder.Amount
	s.intent.Currency = gwOrder.Currency
	return nil
}

// Dismiss records that the customer closed the payment modal.
func (s *Session) Dismiss() {
	if s.state != StateSubmitting {
		return
	}
	s.intent = nil
	s.state = StatePaymentSelected
	s.err = ErrPaymentCancelled.Message
}

func (s *Session) place(ctx context.Context, status model.PaymentStatus, res *PaymentResult) error {
	req := s.orderRequest(status, res)
	order, err := s.deps.Orders.CreateOrder(ctx, req)
	if err != nil {
		return err
	}
	s.order = order
	s.state = StateSuccess
	s.err = ""
	s.cart.Clear()
	return nil
}

func (s *Session) fail(err error) error {
	s.state = StatePaymentSelected
	s.intent = nil
	s.err = err.Error()
	var de *model.DomainError
	if !errors.As(err, &de) {
		s.logger.Warn().Err(err).Str("order_number", s.orderNumber).Msg("checkout submit failed")
	}
	return err
}

func (s *Session) orderRequest(status model.PaymentStatus, res *PaymentResult) model.OrderRequest {
	q := s.Quote()
	addr := s.address

	name, phone := s.customer.Name, s.customer.Phone
	if name == "" {
		name = addr.Name
	}
	if phone == "" {
		phone = addr.Phone
	}

	items := s.cart.Items()
	lines := make([]model.OrderLineRequest, len(items))
	for i, it := range items {
		lines[i] = model.OrderLineRequest{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Name:      it.Name,
			Price:     pricing.FromMinorUnits(it.UnitPrice),
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			Image:     it.Image,
		}
	}

	subtotal := pricing.FromMinorUnits(q.Subtotal)
	fee := pricing.FromMinorUnits(q.DeliveryFee)
	disc := pricing.FromMinorUnits(q.Discount)
	total := pricing.FromMinorUnits(q.Total)

	req := model.OrderRequest{
		UserID:          s.customer.UserID,
		CustomerName:    name,
		CustomerEmail:   s.customer.Email,
		CustomerPhone:   phone,
		CustomerAddress: addr.Format(),
		Items:           lines,
		Subtotal:        &subtotal,
		DeliveryFee:     &fee,
		Discount:        &disc,
		Total:           &total,
		DiscountCode:    s.discountCode,
		OrderNumber:     s.orderNumber,
		PaymentMethod:   s.method,
		PaymentStatus:   status,
		Notes:           s.notes,
	}
	if addr.ID != uuid.Nil {
		id := addr.ID
		req.AddressID = &id
	}
	if res != nil {
		req.PaymentID = res.PaymentID
		req.GatewayOrderID = res.GatewayOrderID
	}
	return req
}

func (s *Session) canEditDetails() bool {
	switch s.state {
	case StateEnteringDetails, StateAddressSelected, StatePaymentSelected:
		return s.cart != nil
	}
	return false
}

func (s *Session) afterAddress() {
	if s.state == StateEnteringDetails {
		s.state = StateAddressSelected
	}
}
