package service

import (
	"context"
	"errors"
	"fmt"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/dto"
	"bookstore-backend/internal/model"
	"bookstore-backend/internal/repository"

	"gorm.io/gorm"
)

type AddressService interface {
	ListByUser(ctx context.Context, userID uint) ([]*dto.AddressView, error)
	Create(ctx context.Context, userID uint, payload *dto.AddressPayload) (*dto.AddressView, error)
	Update(ctx context.Context, userID, addressID uint, payload *dto.AddressPayload) (*dto.AddressView, error)
	Delete(ctx context.Context, userID, addressID uint) error

	// ResolveShipping produces the immutable shipping snapshot for a
	// checkout, from either a saved address (ownership enforced) or an
	// inline payload. When persist is set the inline payload is also
	// saved as a new address inside the caller's transaction, so it
	// rolls back with a failed checkout.
	ResolveShipping(ctx context.Context, tx *gorm.DB, userID uint, addressID *uint, inline *dto.AddressPayload, persist bool) (model.ShippingSnapshot, error)
}

type addressServiceImpl struct {
	db          *gorm.DB
	addressRepo repository.AddressRepository
	userRepo    repository.UserRepository
}

func NewAddressService(db *gorm.DB, addressRepo repository.AddressRepository, userRepo repository.UserRepository) AddressService {
	return &addressServiceImpl{
		db:          db,
		addressRepo: addressRepo,
		userRepo:    userRepo,
	}
}

func (s *addressServiceImpl) ListByUser(ctx context.Context, userID uint) ([]*dto.AddressView, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}

	views := make([]*dto.AddressView, len(addresses))
	for i, address := range addresses {
		views[i] = addressToView(address)
	}

	return views, nil
}

func (s *addressServiceImpl) Create(ctx context.Context, userID uint, payload *dto.AddressPayload) (*dto.AddressView, error) {
	if _, err := s.userRepo.FindByID(ctx, s.db, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	address := &model.Address{
		UserID:     userID,
		Street:     payload.Street,
		City:       payload.City,
		Province:   payload.Province,
		PostalCode: payload.PostalCode,
		Country:    payload.Country,
	}

	if err := s.addressRepo.Create(ctx, s.db, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	return addressToView(address), nil
}

func (s *addressServiceImpl) Update(ctx context.Context, userID, addressID uint, payload *dto.AddressPayload) (*dto.AddressView, error) {
	address, err := s.ownedAddress(ctx, s.db, userID, addressID)
	if err != nil {
		return nil, err
	}

	// only overwrite fields that are provided
	if payload.Street != "" {
		address.Street = payload.Street
	}
	if payload.City != "" {
		address.City = payload.City
	}
	if payload.Province != "" {
		address.Province = payload.Province
	}
	if payload.PostalCode != "" {
		address.PostalCode = payload.PostalCode
	}
	if payload.Country != "" {
		address.Country = payload.Country
	}

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}

	return addressToView(address), nil
}

func (s *addressServiceImpl) Delete(ctx context.Context, userID, addressID uint) error {
	if _, err := s.ownedAddress(ctx, s.db, userID, addressID); err != nil {
		return err
	}

	if err := s.addressRepo.Delete(ctx, addressID); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	return nil
}

func (s *addressServiceImpl) ResolveShipping(ctx context.Context, tx *gorm.DB, userID uint, addressID *uint, inline *dto.AddressPayload, persist bool) (model.ShippingSnapshot, error) {
	if addressID != nil {
		address, err := s.ownedAddress(ctx, tx, userID, *addressID)
		if err != nil {
			return model.ShippingSnapshot{}, err
		}

		return model.ShippingSnapshot{
			Street:     address.Street,
			City:       address.City,
			Province:   address.Province,
			PostalCode: address.PostalCode,
			Country:    address.Country,
		}, nil
	}

	if inline == nil {
		return model.ShippingSnapshot{}, apperr.Validation("no address information provided")
	}

	snapshot := model.ShippingSnapshot{
		Street:     inline.Street,
		City:       inline.City,
		Province:   inline.Province,
		PostalCode: inline.PostalCode,
		Country:    inline.Country,
	}

	if persist {
		address := &model.Address{
			UserID:     userID,
			Street:     inline.Street,
			City:       inline.City,
			Province:   inline.Province,
			PostalCode: inline.PostalCode,
			Country:    inline.Country,
		}
		if err := s.addressRepo.Create(ctx, tx, address); err != nil {
			return model.ShippingSnapshot{}, fmt.Errorf("save checkout address: %w", err)
		}
	}

	return snapshot, nil
}

func (s *addressServiceImpl) ownedAddress(ctx context.Context, tx *gorm.DB, userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, tx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("address %d not found", addressID)
		}
		return nil, fmt.Errorf("find address: %w", err)
	}

	if address.UserID != userID {
		return nil, apperr.Forbidden("address %d does not belong to user %d", addressID, userID)
	}

	return address, nil
}

func addressToView(address *model.Address) *dto.AddressView {
	return &dto.AddressView{
		AddressID:  address.AddressID,
		Street:     address.Street,
		City:       address.City,
		Province:   address.Province,
		PostalCode: address.PostalCode,
		Country:    address.Country,
	}
}
