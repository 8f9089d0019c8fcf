package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payload shapes, one per protocol category. The execution engine picks
// the shape with an exhaustive switch over the protocol type; consumers
// unmarshal by Category.

type CalorieCyclingPayload struct {
	DayType  string  `json:"day_type"` // high | low
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

type MacroAdjustmentPayload struct {
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

type CardioPayload struct {
	Minutes   int    `json:"minutes"`
	Modality  string `json:"modality,omitempty"`
	Intensity string `json:"intensity,omitempty"`
}

type SupplementPayload struct {
	Name   string `json:"name"`
	Dose   string `json:"dose"`
	Timing string `json:"timing,omitempty"`
}

type ProgressPhotosPayload struct {
	Poses []string `json:"poses"`
}

// ProtocolInstance is one dated, completable occurrence generated by
// executing a protocol. ProtocolID is nullable so instances survive
// protocol deletion as historical fact. Slot distinguishes multiple
// same-day instances of one category (one per supplement); it is empty
// for single-instance categories. The unique index gives the engine its
// atomic conditional insert.
type ProtocolInstance struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ContestPrepID uuid.UUID      `gorm:"type:uuid;not null;index;index:idx_prep_category_date_slot,unique" json:"contest_prep_id"`
	ProtocolID    *uuid.UUID     `gorm:"type:uuid;index" json:"protocol_id,omitempty"`
	Category      ProtocolType   `gorm:"column:category;not null;index:idx_prep_category_date_slot,unique" json:"category"`
	Date          time.Time      `gorm:"column:date;not null;index;index:idx_prep_category_date_slot,unique" json:"date"`
	Slot          string         `gorm:"column:slot;not null;default:'';index:idx_prep_category_date_slot,unique" json:"slot,omitempty"`
	Completed     bool           `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt   *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Notes         string         `gorm:"column:notes" json:"notes,omitempty"`
	Payload       datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (ProtocolInstance) TableName() string { return "protocol_instance" }

func (i *ProtocolInstance) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
