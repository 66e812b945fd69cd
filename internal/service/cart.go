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

type CartService interface {
	GetByUser(ctx context.Context, userID uint) (*dto.CartView, error)
	AddItem(ctx context.Context, userID uint, req *dto.CartItemRequest) (*dto.CartView, error)
	UpdateItemQuantity(ctx context.Context, userID, cartItemID uint, quantity int) (*dto.CartView, error)
	RemoveItem(ctx context.Context, userID, cartItemID uint) (*dto.CartView, error)
	Clear(ctx context.Context, userID uint) (*dto.CartView, error)
}

type cartServiceImpl struct {
	db       *gorm.DB
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
}

func NewCartService(db *gorm.DB, cartRepo repository.CartRepository, bookRepo repository.BookRepository, userRepo repository.UserRepository) CartService {
	return &cartServiceImpl{
		db:       db,
		cartRepo: cartRepo,
		bookRepo: bookRepo,
		userRepo: userRepo,
	}
}

func (s *cartServiceImpl) GetByUser(ctx context.Context, userID uint) (*dto.CartView, error) {
	cart, err := s.findOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return cartToView(cart), nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID uint, req *dto.CartItemRequest) (*dto.CartView, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validation("item quantity must be positive")
	}

	cart, err := s.findOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.bookRepo.FindByID(ctx, req.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("book %d not found", req.BookID)
		}
		return nil, fmt.Errorf("find book: %w", err)
	}

	// merge with an existing line for the same book
	var existing *model.CartItem
	for i := range cart.Items {
		if cart.Items[i].BookID == req.BookID {
			existing = &cart.Items[i]
			break
		}
	}

	if existing != nil {
		err = s.cartRepo.UpdateItemQuantity(ctx, existing.CartItemID, existing.Quantity+req.Quantity)
	} else {
		err = s.cartRepo.AddItem(ctx, &model.CartItem{
			CartID:   cart.CartID,
			BookID:   req.BookID,
			Quantity: req.Quantity,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("add item to cart: %w", err)
	}

	return s.reload(ctx, userID)
}

func (s *cartServiceImpl) UpdateItemQuantity(ctx context.Context, userID, cartItemID uint, quantity int) (*dto.CartView, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("item quantity must be positive")
	}

	cart, err := s.ownedCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cartHasItem(cart, cartItemID) {
		return nil, apperr.NotFound("cart item %d not found", cartItemID)
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, cartItemID, quantity); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	return s.reload(ctx, userID)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, cartItemID uint) (*dto.CartView, error) {
	cart, err := s.ownedCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cartHasItem(cart, cartItemID) {
		return nil, apperr.NotFound("cart item %d not found", cartItemID)
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.CartID, cartItemID); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}

	return s.reload(ctx, userID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID uint) (*dto.CartView, error) {
	cart, err := s.ownedCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, s.db, cart.CartID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	return s.reload(ctx, userID)
}

func (s *cartServiceImpl) findOrCreateCart(ctx context.Context, userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, s.db, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	if _, err := s.userRepo.FindByID(ctx, s.db, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", userID)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	cart = &model.Cart{UserID: userID}
	if err := s.cartRepo.Create(ctx, s.db, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}

	return cart, nil
}

func (s *cartServiceImpl) ownedCart(ctx context.Context, userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("cart not found for user %d", userID)
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	return cart, nil
}

func (s *cartServiceImpl) reload(ctx context.Context, userID uint) (*dto.CartView, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}

	return cartToView(cart), nil
}

func cartHasItem(cart *model.Cart, cartItemID uint) bool {
	for _, item := range cart.Items {
		if item.CartItemID == cartItemID {
			return true
		}
	}
	return false
}

func cartToView(cart *model.Cart) *dto.CartView {
	view := &dto.CartView{
		CartID: cart.CartID,
		Items:  make([]dto.CartItemView, len(cart.Items)),
	}

	for i, item := range cart.Items {
		view.Items[i] = dto.CartItemView{
			CartItemID: item.CartItemID,
			Quantity:   item.Quantity,
			Book:       bookToView(&item.Book),
		}
	}

	return view
}
