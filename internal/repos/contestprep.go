package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/types"
)

type ContestPrepRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.ContestPrep) ([]*types.ContestPrep, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ContestPrep, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ContestPrep, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type contestPrepRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewContestPrepRepo(db *gorm.DB, baseLog *logger.Logger) ContestPrepRepo {
  repoLog := baseLog.With("repo", "ContestPrepRepo")
  return &contestPrepRepo{db: db, log: repoLog}
}

func (r *contestPrepRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ContestPrep) ([]*types.ContestPrep, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.ContestPrep{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *contestPrepRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ContestPrep, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ContestPrep
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

func (r *contestPrepRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ContestPrep, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ContestPrep
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *contestPrepRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil || len(updates) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.ContestPrep{}).
    Where("id = ?", id).
    Updates(updates).Error; err != nil {
    return err
  }
  return nil
}
