package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ExecutionRecord is one entry of a protocol's append-only execution
// history. The unique (protocol_id, date) index is the idempotency key:
// concurrent executes for the same day collapse into a single record.
type ExecutionRecord struct {
	ID            uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	ProtocolID    uuid.UUID                       `gorm:"type:uuid;not null;index:idx_protocol_date,unique" json:"protocol_id"`
	ContestPrepID uuid.UUID                       `gorm:"type:uuid;not null;index" json:"contest_prep_id"`
	Date          time.Time                       `gorm:"column:date;not null;index:idx_protocol_date,unique" json:"date"`
	ExecutedAt    time.Time                       `gorm:"column:executed_at;not null" json:"executed_at"`
	InstanceIDs   datatypes.JSONType[[]uuid.UUID] `gorm:"column:instance_ids" json:"instance_ids"`
	CreatedAt     time.Time                       `gorm:"not null" json:"created_at"`
}

func (ExecutionRecord) TableName() string { return "execution_record" }

func (r *ExecutionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
