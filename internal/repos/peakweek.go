package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/types"
)

type PeakWeekRepo interface {
  GetByPrepID(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) ([]*types.PeakWeekDay, error)
  GetByPrepAndDay(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, day int) (*types.PeakWeekDay, error)
  // ReplaceForPrep deletes the prep's rows and inserts the given seven.
  // Callers must wrap it in a transaction so readers never observe a
  // partially regenerated week.
  ReplaceForPrep(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, rows []*types.PeakWeekDay) error
  UpdateObservation(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (int64, error)
}

type peakWeekRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPeakWeekRepo(db *gorm.DB, baseLog *logger.Logger) PeakWeekRepo {
  repoLog := baseLog.With("repo", "PeakWeekRepo")
  return &peakWeekRepo{db: db, log: repoLog}
}

func (r *peakWeekRepo) GetByPrepID(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) ([]*types.PeakWeekDay, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.PeakWeekDay
  if prepID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("contest_prep_id = ?", prepID).
    Order("day DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *peakWeekRepo) GetByPrepAndDay(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, day int) (*types.PeakWeekDay, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if prepID == uuid.Nil {
    return nil, nil
  }

  var results []*types.PeakWeekDay
  if err := transaction.WithContext(ctx).
    Where("contest_prep_id = ? AND day = ?", prepID, day).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *peakWeekRepo) ReplaceForPrep(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, rows []*types.PeakWeekDay) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if prepID == uuid.Nil {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("contest_prep_id = ?", prepID).
    Delete(&types.PeakWeekDay{}).Error; err != nil {
    return err
  }
  if len(rows) == 0 {
    return nil
  }
  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return err
  }
  return nil
}

func (r *peakWeekRepo) UpdateObservation(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil || len(updates) == 0 {
    return 0, nil
  }

  res := transaction.WithContext(ctx).
    Model(&types.PeakWeekDay{}).
    Where("id = ?", id).
    Updates(updates)
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}
