package models

import (
	"time"
)

type User struct {
	ID         uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Username   string         `json:"username"`
	Email      string         `json:"email" gorm:"uniqueIndex;not null"`
	Password   string         `json:"-" gorm:"not null"`
	APIKey     *string        `json:"-" gorm:"column:api_key;index"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	Activities []Activity     `json:"-" gorm:"foreignKey:UserID"`
	Hours      []WorkingHours `json:"-" gorm:"foreignKey:UserID"`
	Usage      []APIUsage     `json:"-" gorm:"foreignKey:UserID"`
}
