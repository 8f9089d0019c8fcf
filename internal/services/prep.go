package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/repos"
  "github.com/peakform/peakform-backend/internal/requestdata"
  "github.com/peakform/peakform-backend/internal/types"
)

type CreatePrepInput struct {
  Name        string
  ContestDate *time.Time
  MacroPlan   *types.MacroPlan
  Supplements []types.SupplementEntry
  CardioPlan  *types.CardioPlan
}

type UpdatePlansInput struct {
  MacroPlan   *types.MacroPlan
  Supplements []types.SupplementEntry
  CardioPlan  *types.CardioPlan
}

type ContestPrepService interface {
  Create(ctx context.Context, tx *gorm.DB, input CreatePrepInput) (*types.ContestPrep, error)
  Get(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) (*types.ContestPrep, error)
  List(ctx context.Context, tx *gorm.DB) ([]*types.ContestPrep, error)
  UpdatePlans(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, input UpdatePlansInput) (*types.ContestPrep, error)
}

type contestPrepService struct {
  db           *gorm.DB
  log          *logger.Logger
  prepRepo     repos.ContestPrepRepo
  peakWeekRepo repos.PeakWeekRepo
}

func NewContestPrepService(db *gorm.DB, baseLog *logger.Logger, prepRepo repos.ContestPrepRepo, peakWeekRepo repos.PeakWeekRepo) ContestPrepService {
  return &contestPrepService{
    db:           db,
    log:          baseLog.With("service", "ContestPrepService"),
    prepRepo:     prepRepo,
    peakWeekRepo: peakWeekRepo,
  }
}

func (s *contestPrepService) Create(ctx context.Context, tx *gorm.DB, input CreatePrepInput) (*types.ContestPrep, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("not authenticated")
  }
  if input.Name == "" {
    return nil, fmt.Errorf("%w: missing prep name", ErrValidation)
  }

  prep := &types.ContestPrep{
    UserID: rd.UserID,
    Name:   input.Name,
  }
  if input.ContestDate != nil {
    d := types.DayOf(*input.ContestDate)
    prep.ContestDate = &d
  }
  if input.MacroPlan != nil {
    prep.MacroPlan = datatypes.NewJSONType(*input.MacroPlan)
  }
  if input.Supplements != nil {
    prep.Supplements = datatypes.NewJSONType(input.Supplements)
  }
  if input.CardioPlan != nil {
    prep.CardioPlan = datatypes.NewJSONType(*input.CardioPlan)
  }

  db := s.db
  if tx != nil {
    db = tx
  }
  err := db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
    if _, err := s.prepRepo.Create(ctx, txn, []*types.ContestPrep{prep}); err != nil {
      return err
    }
    // A prep with a contest date always carries its seven peak-week
    // rows; creating with a date seeds them in the same transaction.
    if prep.ContestDate != nil {
      rows := regeneratePeakWeek(prep.ID, *prep.ContestDate, nil)
      return s.peakWeekRepo.ReplaceForPrep(ctx, txn, prep.ID, rows)
    }
    return nil
  })
  if err != nil {
    s.log.Warn("Create: insert failed", "error", err)
    return nil, err
  }
  return prep, nil
}

func (s *contestPrepService) Get(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) (*types.ContestPrep, error) {
  return s.getOwned(ctx, tx, prepID)
}

func (s *contestPrepService) List(ctx context.Context, tx *gorm.DB) ([]*types.ContestPrep, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("not authenticated")
  }
  return s.prepRepo.GetByUserID(ctx, tx, rd.UserID)
}

func (s *contestPrepService) UpdatePlans(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, input UpdatePlansInput) (*types.ContestPrep, error) {
  prep, err := s.getOwned(ctx, tx, prepID)
  if err != nil {
    return nil, err
  }

  updates := map[string]interface{}{}
  if input.MacroPlan != nil {
    updates["macro_plan"] = datatypes.NewJSONType(*input.MacroPlan)
  }
  if input.Supplements != nil {
    updates["supplements"] = datatypes.NewJSONType(input.Supplements)
  }
  if input.CardioPlan != nil {
    updates["cardio_plan"] = datatypes.NewJSONType(*input.CardioPlan)
  }
  if len(updates) == 0 {
    return prep, nil
  }

  if err := s.prepRepo.UpdateFields(ctx, tx, prep.ID, updates); err != nil {
    s.log.Warn("UpdatePlans: update failed", "error", err, "prep_id", prepID)
    return nil, err
  }

  preps, err := s.prepRepo.GetByIDs(ctx, tx, []uuid.UUID{prep.ID})
  if err != nil || len(preps) == 0 {
    return nil, err
  }
  return preps[0], nil
}

// getOwned loads a prep and enforces that it belongs to the request
// user; a prep owned by someone else is indistinguishable from a
// missing one.
func (s *contestPrepService) getOwned(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) (*types.ContestPrep, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("not authenticated")
  }
  if prepID == uuid.Nil {
    return nil, fmt.Errorf("%w: contest prep", ErrNotFound)
  }

  preps, err := s.prepRepo.GetByIDs(ctx, tx, []uuid.UUID{prepID})
  if err != nil {
    return nil, err
  }
  if len(preps) == 0 || preps[0] == nil || preps[0].UserID != rd.UserID {
    return nil, fmt.Errorf("%w: contest prep", ErrNotFound)
  }
  return preps[0], nil
}
