package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PeakWeekDay is one of the seven date-anchored rows of the peak-week
// protocol. Day counts down to the contest (day 1 is the contest day)
// and is the stable key across contest-date edits: regeneration
// overwrites Date and the prescribed fields, observed fields are
// preserved by Day.
type PeakWeekDay struct {
	ID            uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	ContestPrepID uuid.UUID                     `gorm:"type:uuid;not null;index:idx_prep_day,unique" json:"contest_prep_id"`
	Day           int                           `gorm:"column:day;not null;index:idx_prep_day,unique" json:"day"` // 7..1
	Date          time.Time                     `gorm:"column:date;not null" json:"date"`

	// Prescribed, from the fixed 7-row table.
	Water    string `gorm:"column:water;not null" json:"water"`
	Carbs    string `gorm:"column:carbs;not null" json:"carbs"`
	Sodium   string `gorm:"column:sodium;not null" json:"sodium"`
	Training string `gorm:"column:training;not null" json:"training"`
	Cardio   string `gorm:"column:cardio;not null" json:"cardio"`
	Note     string `gorm:"column:note" json:"note,omitempty"`

	// Observed, user-entered.
	Weight       *float64                      `gorm:"column:weight" json:"weight,omitempty"`
	Energy       *int                          `gorm:"column:energy" json:"energy,omitempty"`             // 1..5
	Fullness     *int                          `gorm:"column:fullness" json:"fullness,omitempty"`         // 1..5
	Vascularity  *int                          `gorm:"column:vascularity" json:"vascularity,omitempty"`   // 1..5
	Conditioning *int                          `gorm:"column:conditioning" json:"conditioning,omitempty"` // 1..5
	Photos       datatypes.JSONType[[]string]  `gorm:"column:photos" json:"photos"`
	Notes        string                        `gorm:"column:notes" json:"notes,omitempty"`
	Completed    bool                          `gorm:"column:completed;not null;default:false" json:"completed"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PeakWeekDay) TableName() string { return "peak_week_day" }

func (d *PeakWeekDay) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
