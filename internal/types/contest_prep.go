package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MacroPlan is the caller-supplied base nutrition plan calorie-cycling
// targets are derived from. HighDays lists the weekdays (0=Sunday) that
// get the high-calorie target.
type MacroPlan struct {
	HighCalories int     `json:"high_calories"`
	LowCalories  int     `json:"low_calories"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
	HighDays     []int   `json:"high_days,omitempty"`
}

type SupplementEntry struct {
	Name   string `json:"name"`
	Dose   string `json:"dose"`
	Timing string `json:"timing,omitempty"`
}

type CardioPlan struct {
	Minutes   int    `json:"minutes"`
	Modality  string `json:"modality,omitempty"`
	Intensity string `json:"intensity,omitempty"`
}

type ContestPrep struct {
	ID          uuid.UUID                              `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID                              `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string                                 `gorm:"column:name;not null" json:"name"`
	ContestDate *time.Time                             `gorm:"column:contest_date" json:"contest_date,omitempty"`
	MacroPlan   datatypes.JSONType[MacroPlan]          `gorm:"column:macro_plan" json:"macro_plan"`
	Supplements datatypes.JSONType[[]SupplementEntry]  `gorm:"column:supplements" json:"supplements"`
	CardioPlan  datatypes.JSONType[CardioPlan]         `gorm:"column:cardio_plan" json:"cardio_plan"`
	CreatedAt   time.Time                              `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                              `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt                         `gorm:"index" json:"deleted_at,omitempty"`
}

func (ContestPrep) TableName() string { return "contest_prep" }

func (p *ContestPrep) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
