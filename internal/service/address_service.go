package service

import (
	"context"
	"fmt"

	"freshkart/internal/model"
	"freshkart/internal/repository"
	"freshkart/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// addressService implements AddressService.
type addressService struct {
	repo   repository.AddressRepository
	logger zerolog.Logger
}

// NewAddressService creates a new address service.
func NewAddressService(repo repository.AddressRepository, logger zerolog.Logger) AddressService {
	return &addressService{
		repo:   repo,
		logger: logger.With().Str("service", "address").Logger(),
	}
}

func (s *addressService) List(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return addresses, nil
}

// Create stores a new address. A customer's first address becomes the
// default.
func (s *addressService) Create(ctx context.Context, userID uuid.UUID, req model.AddressRequest) (*model.Address, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	addr := req.ToAddress(userID)
	if err := s.repo.Create(ctx, &addr); err != nil {
		return nil, wrapUnlessDomain("failed to create address", err)
	}
	return &addr, nil
}

// Update replaces an address. Clearing IsDefault on the current default is
// ignored; another address has to be made default instead.
func (s *addressService) Update(ctx context.Context, userID, id uuid.UUID, req model.AddressRequest) (*model.Address, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	addr := req.ToAddress(userID)
	addr.ID = id
	if err := s.repo.Update(ctx, &addr); err != nil {
		return nil, wrapUnlessDomain("failed to update address", err)
	}
	return &addr, nil
}

func (s *addressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return wrapUnlessDomain("failed to delete address", err)
	}
	return nil
}

func (s *addressService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	addr, err := s.repo.SetDefault(ctx, userID, id)
	if err != nil {
		return nil, wrapUnlessDomain("failed to set default address", err)
	}
	s.logger.Debug().Str("address_id", id.String()).Str("user_id", userID.String()).Msg("default address changed")
	return addr, nil
}
