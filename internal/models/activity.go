package models

// Activity is a named, colored category that working hours are tagged with.
// Name carries a table-wide unique index, so two users cannot share a name.
type Activity struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint   `json:"userId" gorm:"not null;index"`
	Name        string `json:"activity" gorm:"column:activity;uniqueIndex"`
	Description string `json:"description"`
	Color       string `json:"color"`
}
