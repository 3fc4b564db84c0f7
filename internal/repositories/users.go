package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rohits-web03/worklog/internal/models"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

func CreateUser(ctx context.Context, user *models.User) error {
	if err := DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// SetAPIKey overwrites the user's key; nil clears it.
func SetAPIKey(ctx context.Context, userID uint, apiKey *string) error {
	res := DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("api_key", apiKey)
	if res.Error != nil {
		return fmt.Errorf("set api key: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns every user ordered by id.
func ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := DB.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
