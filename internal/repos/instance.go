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

type InstanceFilter struct {
  Category *types.ProtocolType
  From     *time.Time
  To       *time.Time
}

type ProtocolInstanceRepo interface {
  // CreateConditional inserts rows, silently skipping any that collide
  // on (contest_prep_id, category, date, slot). Returns the number of
  // rows actually inserted.
  CreateConditional(ctx context.Context, tx *gorm.DB, rows []*types.ProtocolInstance) (int64, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProtocolInstance, error)
  GetByPrepCategoryDate(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, category types.ProtocolType, date time.Time) ([]*types.ProtocolInstance, error)
  GetByPrepID(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, filter InstanceFilter) ([]*types.ProtocolInstance, error)
  UpdateCompletion(ctx context.Context, tx *gorm.DB, id uuid.UUID, completed bool, completedAt *time.Time, notes *string) (int64, error)
}

type protocolInstanceRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewProtocolInstanceRepo(db *gorm.DB, baseLog *logger.Logger) ProtocolInstanceRepo {
  repoLog := baseLog.With("repo", "ProtocolInstanceRepo")
  return &protocolInstanceRepo{db: db, log: repoLog}
}

func (r *protocolInstanceRepo) CreateConditional(ctx context.Context, tx *gorm.DB, rows []*types.ProtocolInstance) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return 0, nil
  }
  for _, row := range rows {
    row.Date = types.DayOf(row.Date)
  }

  res := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "contest_prep_id"}, {Name: "category"}, {Name: "date"}, {Name: "slot"}},
      DoNothing: true,
    }).
    Create(&rows)
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}

func (r *protocolInstanceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProtocolInstance, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ProtocolInstance
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

func (r *protocolInstanceRepo) GetByPrepCategoryDate(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, category types.ProtocolType, date time.Time) ([]*types.ProtocolInstance, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ProtocolInstance
  if prepID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("contest_prep_id = ? AND category = ? AND date = ?", prepID, category, types.DayOf(date)).
    Order("slot ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *protocolInstanceRepo) GetByPrepID(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, filter InstanceFilter) ([]*types.ProtocolInstance, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.ProtocolInstance
  if prepID == uuid.Nil {
    return results, nil
  }

  query := transaction.WithContext(ctx).
    Where("contest_prep_id = ?", prepID)
  if filter.Category != nil {
    query = query.Where("category = ?", *filter.Category)
  }
  if filter.From != nil {
    query = query.Where("date >= ?", types.DayOf(*filter.From))
  }
  if filter.To != nil {
    query = query.Where("date <= ?", types.DayOf(*filter.To))
  }

  if err := query.
    Order("date ASC, category ASC, slot ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *protocolInstanceRepo) UpdateCompletion(ctx context.Context, tx *gorm.DB, id uuid.UUID, completed bool, completedAt *time.Time, notes *string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if id == uuid.Nil {
    return 0, nil
  }

  updates := map[string]interface{}{
    "completed":    completed,
    "completed_at": completedAt,
  }
  if notes != nil {
    updates["notes"] = *notes
  }

  res := transaction.WithContext(ctx).
    Model(&types.ProtocolInstance{}).
    Where("id = ?", id).
    Updates(updates)
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}
