package models

// APIUsage counts protected calls per user per UTC day (YYYY-MM-DD).
type APIUsage struct {
	UserID uint   `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	Day    string `json:"day" gorm:"primaryKey;type:varchar(10)"`
	Count  int    `json:"count" gorm:"not null"`
}

func (APIUsage) TableName() string {
	return "api_usages"
}
