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

type CatalogService interface {
	List(ctx context.Context, filter repository.BookFilter) ([]dto.BookView, error)
	GetByID(ctx context.Context, bookID uint) (*dto.BookView, error)
	Create(ctx context.Context, view *dto.BookView) (*dto.BookView, error)
	Update(ctx context.Context, bookID uint, view *dto.BookView) (*dto.BookView, error)
	Delete(ctx context.Context, bookID uint) error
	// Restock adds stock outside of checkout; the adjustment must be
	// positive.
	Restock(ctx context.Context, bookID uint, quantity int) (*dto.BookView, error)
}

type catalogServiceImpl struct {
	bookRepo repository.BookRepository
}

func NewCatalogService(bookRepo repository.BookRepository) CatalogService {
	return &catalogServiceImpl{
		bookRepo: bookRepo,
	}
}

func (s *catalogServiceImpl) List(ctx context.Context, filter repository.BookFilter) ([]dto.BookView, error) {
	books, err := s.bookRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	views := make([]dto.BookView, len(books))
	for i, book := range books {
		views[i] = bookToView(book)
	}

	return views, nil
}

func (s *catalogServiceImpl) GetByID(ctx context.Context, bookID uint) (*dto.BookView, error) {
	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	view := bookToView(book)
	return &view, nil
}

func (s *catalogServiceImpl) Create(ctx context.Context, view *dto.BookView) (*dto.BookView, error) {
	if view.Title == "" || view.Author == "" || view.ISBN == "" {
		return nil, apperr.Validation("title, author and isbn are required")
	}
	if view.Quantity < 0 {
		return nil, apperr.Validation("quantity must not be negative")
	}

	book := &model.Book{
		Title:       view.Title,
		Author:      view.Author,
		Price:       view.Price,
		Description: view.Description,
		ISBN:        view.ISBN,
		ImageURL:    view.ImageURL,
		Quantity:    view.Quantity,
		Year:        view.Year,
		Genres:      view.Genres,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	created := bookToView(book)
	return &created, nil
}

func (s *catalogServiceImpl) Update(ctx context.Context, bookID uint, view *dto.BookView) (*dto.BookView, error) {
	book, err := s.findBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if view.Title != "" {
		book.Title = view.Title
	}
	if view.Author != "" {
		book.Author = view.Author
	}
	if view.Price.Sign() > 0 {
		book.Price = view.Price
	}
	if view.Description != "" {
		book.Description = view.Description
	}
	if view.ImageURL != "" {
		book.ImageURL = view.ImageURL
	}
	if view.Year != 0 {
		book.Year = view.Year
	}
	if len(view.Genres) > 0 {
		book.Genres = view.Genres
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	updated := bookToView(book)
	return &updated, nil
}

func (s *catalogServiceImpl) Delete(ctx context.Context, bookID uint) error {
	if err := s.bookRepo.Delete(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("book %d not found", bookID)
		}
		return fmt.Errorf("delete book: %w", err)
	}

	return nil
}

func (s *catalogServiceImpl) Restock(ctx context.Context, bookID uint, quantity int) (*dto.BookView, error) {
	if quantity <= 0 {
		return nil, apperr.Validation("restock quantity must be positive")
	}

	if err := s.bookRepo.AddStock(ctx, bookID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("book %d not found", bookID)
		}
		return nil, fmt.Errorf("restock book: %w", err)
	}

	return s.GetByID(ctx, bookID)
}

func (s *catalogServiceImpl) findBook(ctx context.Context, bookID uint) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("book %d not found", bookID)
		}
		return nil, fmt.Errorf("find book: %w", err)
	}

	return book, nil
}

func bookToView(book *model.Book) dto.BookView {
	return dto.BookView{
		BookID:      book.BookID,
		Title:       book.Title,
		Author:      book.Author,
		Price:       book.Price,
		Description: book.Description,
		ISBN:        book.ISBN,
		ImageURL:    book.ImageURL,
		Quantity:    book.Quantity,
		Year:        book.Year,
		Genres:      book.Genres,
	}
}
