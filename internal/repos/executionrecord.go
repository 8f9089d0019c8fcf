package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"
  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/types"
)

type ExecutionRecordRepo interface {
  // CreateConditional inserts the record unless one already exists for
  // (protocol_id, date). Returns false when another writer won.
  CreateConditional(ctx context.Context, tx *gorm.DB, row *types.ExecutionRecord) (bool, error)
  GetByProtocolAndDate(ctx context.Context, tx *gorm.DB, protocolID uuid.UUID, date time.Time) (*types.ExecutionRecord, error)
  GetByProtocolIDs(ctx context.Context, tx *gorm.DB, protocolIDs []uuid.UUID) ([]*types.ExecutionRecord, error)
}

type executionRecordRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewExecutionRecordRepo(db *gorm.DB, baseLog *logger.Logger) ExecutionRecordRepo {
  repoLog := baseLog.With("repo", "ExecutionRecordRepo")
  return &executionRecordRepo{db: db, log: repoLog}
}

func (r *executionRecordRepo) CreateConditional(ctx context.Context, tx *gorm.DB, row *types.ExecutionRecord) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return false, nil
  }
  row.Date = types.DayOf(row.Date)

  res := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "protocol_id"}, {Name: "date"}},
      DoNothing: true,
    }).
    Create(row)
  if res.Error != nil {
    return false, res.Error
  }
  return res.RowsAffected > 0, nil
}

func (r *executionRecordRepo) GetByProtocolAndDate(ctx context.Context, tx *gorm.DB, protocolID uuid.UUID, date time.Time) (*types.ExecutionRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if protocolID == uuid.Nil {
    return nil, nil
  }

  var results []*types.ExecutionRecord
  if err := transaction.WithContext(ctx).
    Where("protocol_id = ? AND date = ?", protocolID, types.DayOf(date)).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *executionRecordRepo) GetByProtocolIDs(ctx context.Context, tx *gorm.DB, protocolIDs []uuid.UUID) ([]*types.ExecutionRecord, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ExecutionRecord
  if len(protocolIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("protocol_id IN ?", protocolIDs).
    Order("date ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
