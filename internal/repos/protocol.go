package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/types"
)

type AutomatedProtocolRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.AutomatedProtocol) ([]*types.AutomatedProtocol, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.AutomatedProtocol, error)
  GetByIDsWithHistory(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.AutomatedProtocol, error)
  GetByPrepIDs(ctx context.Context, tx *gorm.DB, prepIDs []uuid.UUID) ([]*types.AutomatedProtocol, error)
  GetAllActive(ctx context.Context, tx *gorm.DB) ([]*types.AutomatedProtocol, error)
  SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) (int64, error)
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type automatedProtocolRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAutomatedProtocolRepo(db *gorm.DB, baseLog *logger.Logger) AutomatedProtocolRepo {
  repoLog := baseLog.With("repo", "AutomatedProtocolRepo")
  return &automatedProtocolRepo{db: db, log: repoLog}
}

func (r *automatedProtocolRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.AutomatedProtocol) ([]*types.AutomatedProtocol, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.AutomatedProtocol{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *automatedProtocolRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.AutomatedProtocol, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.AutomatedProtocol
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *automatedProtocolRepo) GetByIDsWithHistory(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.AutomatedProtocol, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.AutomatedProtocol
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Preload("History", func(db *gorm.DB) *gorm.DB {
      return db.Order("execution_record.date ASC")
    }).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *automatedProtocolRepo) GetByPrepIDs(ctx context.Context, tx *gorm.DB, prepIDs []uuid.UUID) ([]*types.AutomatedProtocol, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.AutomatedProtocol
  if len(prepIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("contest_prep_id IN ?", prepIDs).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *automatedProtocolRepo) GetAllActive(ctx context.Context, tx *gorm.DB) ([]*types.AutomatedProtocol, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.AutomatedProtocol
  if err := transaction.WithContext(ctx).
    Where("is_active = ?", true).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *automatedProtocolRepo) SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return 0, nil
  }

  res := transaction.WithContext(ctx).
    Model(&types.AutomatedProtocol{}).
    Where("id = ?", id).
    Update("is_active", active)
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}

func (r *automatedProtocolRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.AutomatedProtocol{}).Error; err != nil {
    return err
  }
  return nil
}
