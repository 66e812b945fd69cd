package repository

import (
	"context"

	"bookstore-backend/internal/model"

	"gorm.io/gorm"
)

type PaymentMethodRepository interface {
	Create(ctx context.Context, tx *gorm.DB, method *model.PaymentMethod) error
	// ListByUser returns the user's methods in creation order.
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*model.PaymentMethod, error)
	FindByIDAndUser(ctx context.Context, tx *gorm.DB, methodID, userID uint) (*model.PaymentMethod, error)
	FindDefault(ctx context.Context, userID uint) (*model.PaymentMethod, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error)
	ClearDefault(ctx context.Context, tx *gorm.DB, userID uint) error
	MarkDefault(ctx context.Context, tx *gorm.DB, methodID uint) error
	Delete(ctx context.Context, tx *gorm.DB, methodID uint) error
}

type paymentMethodRepoImpl struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepoImpl{
		db: db,
	}
}

func (r *paymentMethodRepoImpl) Create(ctx context.Context, tx *gorm.DB, method *model.PaymentMethod) error {
	return tx.WithContext(ctx).Create(method).Error
}

func (r *paymentMethodRepoImpl) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*model.PaymentMethod, error) {
	var methods []*model.PaymentMethod
	err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, payment_method_id").
		Find(&methods).Error

	if err != nil {
		return nil, err
	}

	return methods, nil
}

func (r *paymentMethodRepoImpl) FindByIDAndUser(ctx context.Context, tx *gorm.DB, methodID, userID uint) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	err := tx.WithContext(ctx).
		Where("payment_method_id = ? AND user_id = ?", methodID, userID).
		First(&method).Error

	if err != nil {
		return nil, err
	}

	return &method, nil
}

func (r *paymentMethodRepoImpl) FindDefault(ctx context.Context, userID uint) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&method).Error

	if err != nil {
		return nil, err
	}

	return &method, nil
}

func (r *paymentMethodRepoImpl) CountByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.PaymentMethod{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	return count, err
}

func (r *paymentMethodRepoImpl) ClearDefault(ctx context.Context, tx *gorm.DB, userID uint) error {
	return tx.WithContext(ctx).Model(&model.PaymentMethod{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func (r *paymentMethodRepoImpl) MarkDefault(ctx context.Context, tx *gorm.DB, methodID uint) error {
	result := tx.WithContext(ctx).Model(&model.PaymentMethod{}).
		Where("payment_method_id = ?", methodID).
		Update("is_default", true)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *paymentMethodRepoImpl) Delete(ctx context.Context, tx *gorm.DB, methodID uint) error {
	result := tx.WithContext(ctx).
		Where("payment_method_id = ?", methodID).
		Delete(&model.PaymentMethod{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
