package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rohits-web03/worklog/internal/models"
)

func CreateActivity(ctx context.Context, activity *models.Activity) error {
	if err := DB.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// ListActivities returns the user's activities in insertion order.
func ListActivities(ctx context.Context, userID uint) ([]models.Activity, error) {
	activities := []models.Activity{}
	if err := DB.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func FindActivity(ctx context.Context, id, userID uint) (*models.Activity, error) {
	var activity models.Activity
	err := DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&activity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	return &activity, nil
}

// UpsertActivity updates the activity matching (activity.ID, activity.UserID)
// or, when there is none, inserts it under exactly that id. The check and the
// write share a transaction. created reports which branch ran. An id that
// belongs to another user fails on the primary key.
func UpsertActivity(ctx context.Context, activity *models.Activity) (created bool, err error) {
	err = DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Activity
		err := tx.Where("id = ? AND user_id = ?", activity.ID, activity.UserID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(activity).Error
		case err != nil:
			return err
		}

		return tx.Model(&existing).Updates(map[string]any{
			"activity":    activity.Name,
			"description": activity.Description,
			"color":       activity.Color,
		}).Error
	})
	if err != nil {
		return false, fmt.Errorf("upsert activity: %w", err)
	}
	return created, nil
}
