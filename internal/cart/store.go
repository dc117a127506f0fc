package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

// Store persists cart lines per user. It plays the role the browser's
// local storage played for the original storefront.
type Store struct {
	DB *gorm.DB
}

func (s *Store) Lines(ctx context.Context, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Add merges into an existing line for the same product by incrementing
// its quantity, otherwise creates a new line.
func (s *Store) Add(ctx context.Context, line *models.CartLine) error {
	if line.ProductID == 0 {
		return fmt.Errorf("product id required: %w", ErrValidation)
	}
	if line.Quantity == 0 {
		line.Quantity = 1
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartLine{}).
			Where("user_id = ? AND product_id = ?", line.UserID, line.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", line.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", line.UserID, line.ProductID).First(line).Error
		}
		return tx.Create(line).Error
	})
}

// Decrement lowers the quantity by one. At quantity 1 the line is
// removed entirely, so a present line always has quantity >= 1.
func (s *Store) Decrement(ctx context.Context, userID string, productID int) (bool, *models.CartLine, error) {
	var line models.CartLine
	removed := false

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error; err != nil {
			return err
		}
		if line.Quantity > 1 {
			if err := tx.Model(&line).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return err
			}
			return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&line).Error
		}
		removed = true
		return tx.Delete(&line).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, fmt.Errorf("cart line not found: %w", ErrNotFound)
	}
	if err != nil {
		return false, nil, err
	}
	return removed, &line, nil
}

func (s *Store) Remove(ctx context.Context, userID string, productID int) error {
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartLine{}).Error
}

func (s *Store) Clear(ctx context.Context, userID string) error {
	return s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
}
