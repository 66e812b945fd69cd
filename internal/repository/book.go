package repository

import (
	"context"

	"bookstore-backend/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookFilter narrows catalog listings. Zero-value fields are ignored.
type BookFilter struct {
	Title  string
	Author string
	Genre  string
}

type BookRepository interface {
	Seed(ctx context.Context) error
	List(ctx context.Context, filter BookFilter) ([]*model.Book, error)
	FindByID(ctx context.Context, bookID uint) (*model.Book, error)
	Create(ctx context.Context, book *model.Book) error
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, bookID uint) error
	// AddStock applies a restock delta outside of checkout.
	AddStock(ctx context.Context, bookID uint, quantity int) error
	// DecrementStock is the guarded decrement: it only succeeds when at
	// least quantity units remain, so concurrent checkouts cannot drive
	// stock below zero. Must run inside the same transaction that
	// finalizes the order.
	DecrementStock(ctx context.Context, tx *gorm.DB, bookID uint, quantity int) (bool, error)
}

type bookRepoImpl struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepoImpl{
		db: db,
	}
}

func (r *bookRepoImpl) Seed(ctx context.Context) error {
	books := []model.Book{
		{Title: "The Go Programming Language", Author: "Alan Donovan", Price: decimal.NewFromFloat(39.99), ISBN: "978-0134190440", Quantity: 25, Year: 2015, Genres: []string{"Programming"}},
		{Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Price: decimal.NewFromFloat(44.50), ISBN: "978-1449373320", Quantity: 18, Year: 2017, Genres: []string{"Programming", "Databases"}},
		{Title: "The Name of the Wind", Author: "Patrick Rothfuss", Price: decimal.NewFromFloat(12.99), ISBN: "978-0756404741", Quantity: 40, Year: 2007, Genres: []string{"Fantasy"}},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&books).Error
}

func (r *bookRepoImpl) List(ctx context.Context, filter BookFilter) ([]*model.Book, error) {
	q := r.db.WithContext(ctx).Model(&model.Book{})
	if filter.Title != "" {
		q = q.Where("title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.Author != "" {
		q = q.Where("author LIKE ?", "%"+filter.Author+"%")
	}
	if filter.Genre != "" {
		q = q.Where("genres LIKE ?", "%"+filter.Genre+"%")
	}

	var books []*model.Book
	err := q.Order("book_id").Find(&books).Error
	if err != nil {
		return nil, err
	}

	return books, nil
}

func (r *bookRepoImpl) FindByID(ctx context.Context, bookID uint) (*model.Book, error) {
	var book model.Book
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		First(&book).Error

	if err != nil {
		return nil, err
	}

	return &book, nil
}

func (r *bookRepoImpl) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepoImpl) Update(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

func (r *bookRepoImpl) Delete(ctx context.Context, bookID uint) error {
	result := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Delete(&model.Book{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *bookRepoImpl) AddStock(ctx context.Context, bookID uint, quantity int) error {
	result := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("book_id = ?", bookID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *bookRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, bookID uint, quantity int) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Book{}).
		Where("book_id = ? AND quantity >= ?", bookID, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
