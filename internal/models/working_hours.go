package models

// WorkingHours is one logged span of work. Activity holds the activity's
// name, not its id; it is the key the list endpoint joins on.
type WorkingHours struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      uint   `json:"userId" gorm:"not null;index"`
	DateFrom    string `json:"dateFrom" gorm:"type:varchar(10);not null;index"`
	DateTo      string `json:"dateTo" gorm:"type:varchar(10);not null"`
	HoursFrom   string `json:"hoursFrom" gorm:"type:varchar(8);not null"`
	HoursTo     string `json:"hoursTo" gorm:"type:varchar(8);not null"`
	Activity    string `json:"activity" gorm:"not null"`
	Description string `json:"description" gorm:"not null"`
	Duration    *int   `json:"duration"` // minutes
}

func (WorkingHours) TableName() string {
	return "working_hours"
}
