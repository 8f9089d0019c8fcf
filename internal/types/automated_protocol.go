package types

import (
	"fmt"
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProtocolType string

const (
	ProtocolCalorieCycling    ProtocolType = "calorie_cycling"
	ProtocolMacroAdjustment   ProtocolType = "macro_adjustment"
	ProtocolCardioProgramming ProtocolType = "cardio_programming"
	ProtocolSupplementTiming  ProtocolType = "supplement_timing"
	ProtocolProgressPhotos    ProtocolType = "progress_photos"
)

func (t ProtocolType) Validate() error {
	switch t {
	case ProtocolCalorieCycling, ProtocolMacroAdjustment, ProtocolCardioProgramming,
		ProtocolSupplementTiming, ProtocolProgressPhotos:
		return nil
	}
	return fmt.Errorf("unknown protocol type: %q", t)
}

type AutomatedProtocol struct {
	ID            uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	ContestPrepID uuid.UUID                    `gorm:"type:uuid;not null;index" json:"contest_prep_id"`
	ContestPrep   *ContestPrep                 `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContestPrepID;references:ID" json:"contest_prep,omitempty"`
	Type          ProtocolType                 `gorm:"column:type;not null" json:"type"`
	Schedule      datatypes.JSONType[Schedule] `gorm:"column:schedule;not null" json:"schedule"`
	IsActive      bool                         `gorm:"column:is_active;not null;default:true" json:"is_active"`
	History       []*ExecutionRecord           `gorm:"foreignKey:ProtocolID;references:ID" json:"history,omitempty"`
	CreatedAt     time.Time                    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time                    `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt               `gorm:"index" json:"deleted_at,omitempty"`
}

func (AutomatedProtocol) TableName() string { return "automated_protocol" }

func (p *AutomatedProtocol) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
