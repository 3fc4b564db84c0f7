package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rohits-web03/worklog/internal/models"
)

// WorkingHoursWithColor is a working-hours row joined with its activity's color.
type WorkingHoursWithColor struct {
	models.WorkingHours
	Color string
}

func CreateWorkingHours(ctx context.Context, entry *models.WorkingHours) error {
	if err := DB.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create working hours: %w", err)
	}
	return nil
}

// ListWorkingHoursWithColor inner-joins the user's entries to activities by
// activity name. Entries whose name matches no activity are not returned.
func ListWorkingHoursWithColor(ctx context.Context, userID uint) ([]WorkingHoursWithColor, error) {
	rows := []WorkingHoursWithColor{}
	err := DB.WithContext(ctx).
		Table("working_hours").
		Select("working_hours.*, activities.color").
		Joins("JOIN activities ON working_hours.activity = activities.activity").
		Where("working_hours.user_id = ?", userID).
		Order("working_hours.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list working hours: %w", err)
	}
	return rows, nil
}

func FindWorkingHours(ctx context.Context, id, userID uint) (*models.WorkingHours, error) {
	var entry models.WorkingHours
	err := DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find working hours: %w", err)
	}
	return &entry, nil
}

// UpdateWorkingHours overwrites the entry matching (entry.ID, entry.UserID)
// and returns the stored row. It never inserts; ErrNotFound means nothing
// matched.
func UpdateWorkingHours(ctx context.Context, entry *models.WorkingHours) (*models.WorkingHours, error) {
	err := DB.WithContext(ctx).
		Model(&models.WorkingHours{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Updates(map[string]any{
			"date_from":   entry.DateFrom,
			"date_to":     entry.DateTo,
			"hours_from":  entry.HoursFrom,
			"hours_to":    entry.HoursTo,
			"activity":    entry.Activity,
			"description": entry.Description,
			"duration":    entry.Duration,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("update working hours: %w", err)
	}
	return FindWorkingHours(ctx, entry.ID, entry.UserID)
}

// SumDurationMinutes totals the duration column over the user's entries
// with dateFrom >= from and dateTo <= to (both YYYY-MM-DD, inclusive).
func SumDurationMinutes(ctx context.Context, userID uint, from, to string) (int64, error) {
	var total int64
	err := DB.WithContext(ctx).
		Model(&models.WorkingHours{}).
		Select("COALESCE(SUM(duration), 0)").
		Where("user_id = ? AND date_from >= ? AND date_to <= ?", userID, from, to).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum duration: %w", err)
	}
	return total, nil
}
