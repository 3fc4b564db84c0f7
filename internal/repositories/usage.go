package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rohits-web03/worklog/internal/models"
)

// ErrQuotaExceeded is returned when a user has used up the day's calls.
var ErrQuotaExceeded = errors.New("api quota exceeded")

// AuthenticateAPIKey resolves apiKey to its user and consumes one call from
// that user's quota for day, all in one transaction. It returns ErrNotFound
// for unknown keys. Once the day's count has reached limit it returns the
// user together with ErrQuotaExceeded and does not count the call.
func AuthenticateAPIKey(ctx context.Context, apiKey, day string, limit int) (*models.User, error) {
	var user models.User
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("api_key = ?", apiKey).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find user by api key: %w", err)
		}

		consumed, err := consumeQuota(tx, user.ID, day, limit)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrQuotaExceeded
		}
		return nil
	})
	if errors.Is(err, ErrQuotaExceeded) {
		return &user, err
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// consumeQuota increments the (userID, day) counter unless it already
// reached limit. A fresh day starts at 1.
func consumeQuota(tx *gorm.DB, userID uint, day string, limit int) (bool, error) {
	usage := models.APIUsage{UserID: userID, Day: day, Count: 1}
	res := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count": gorm.Expr("api_usages.count + 1"),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Lt{Column: clause.Column{Table: "api_usages", Name: "count"}, Value: limit},
		}},
	}).Create(&usage)
	if res.Error != nil {
		return false, fmt.Errorf("consume quota: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UsageForDay returns the recorded call count, zero when none.
func UsageForDay(ctx context.Context, userID uint, day string) (int, error) {
	var usage models.APIUsage
	err := DB.WithContext(ctx).Where("user_id = ? AND day = ?", userID, day).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage for day: %w", err)
	}
	return usage.Count, nil
}
