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
  "github.com/peakform/peakform-backend/internal/sse"
  "github.com/peakform/peakform-backend/internal/types"
)

// peakWeekPrescription is one row of the fixed peak-week table. Day
// counts down to the contest: day 7 is a week out, day 1 is show day.
type peakWeekPrescription struct {
  Day      int
  Water    string
  Carbs    string
  Sodium   string
  Training string
  Cardio   string
  Note     string
}

// The prescription table is deliberately static. Water tapers from the
// front-load down to sips, carbs deplete then refeed, sodium cuts out
// over the last two days, and training winds down to complete rest.
var peakWeekTable = []peakWeekPrescription{
  {
    Day:      7,
    Water:    "4-5L",
    Carbs:    "2g/kg",
    Sodium:   "normal",
    Training: "light full-body",
    Cardio:   "20 min steady",
    Note:     "begin water load",
  },
  {
    Day:      6,
    Water:    "4-5L",
    Carbs:    "1g/kg",
    Sodium:   "normal",
    Training: "light upper",
    Cardio:   "20 min steady",
    Note:     "deplete",
  },
  {
    Day:      5,
    Water:    "4-5L",
    Carbs:    "0.5g/kg",
    Sodium:   "normal",
    Training: "light lower",
    Cardio:   "20 min steady",
    Note:     "deplete",
  },
  {
    Day:      4,
    Water:    "3-4L",
    Carbs:    "0.5g/kg",
    Sodium:   "normal",
    Training: "pump work only",
    Cardio:   "none",
    Note:     "last depletion day",
  },
  {
    Day:      3,
    Water:    "2-3L",
    Carbs:    "3-4g/kg",
    Sodium:   "normal",
    Training: "rest",
    Cardio:   "none",
    Note:     "begin carb-up",
  },
  {
    Day:      2,
    Water:    "1-1.5L",
    Carbs:    "3-4g/kg",
    Sodium:   "none",
    Training: "rest",
    Cardio:   "none",
    Note:     "cut sodium, taper water",
  },
  {
    Day:      1,
    Water:    "minimal sips",
    Carbs:    "reduced, assess fullness",
    Sodium:   "none",
    Training: "complete rest",
    Cardio:   "none",
    Note:     "show day",
  },
}

type RecordObservationInput struct {
  Weight       *float64
  Energy       *int
  Fullness     *int
  Vascularity  *int
  Conditioning *int
  Photos       []string
  Notes        *string
  Completed    *bool
}

type PeakWeekService interface {
  // SetContestDate updates the prep's contest date and regenerates the
  // seven peak-week rows against the new date. Observations already
  // recorded are carried over by day number.
  SetContestDate(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, contestDate time.Time) ([]*types.PeakWeekDay, error)
  Get(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) ([]*types.PeakWeekDay, error)
  RecordObservation(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, day int, input RecordObservationInput) (*types.PeakWeekDay, error)
}

type peakWeekService struct {
  db           *gorm.DB
  log          *logger.Logger
  prepRepo     repos.ContestPrepRepo
  peakWeekRepo repos.PeakWeekRepo
  emitter      SSEEmitter
}

func NewPeakWeekService(
  db *gorm.DB,
  baseLog *logger.Logger,
  prepRepo repos.ContestPrepRepo,
  peakWeekRepo repos.PeakWeekRepo,
  emitter SSEEmitter,
) PeakWeekService {
  return &peakWeekService{
    db:           db,
    log:          baseLog.With("service", "PeakWeekService"),
    prepRepo:     prepRepo,
    peakWeekRepo: peakWeekRepo,
    emitter:      emitter,
  }
}

func (s *peakWeekService) SetContestDate(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, contestDate time.Time) ([]*types.PeakWeekDay, error) {
  prep, err := s.ownedPrep(ctx, tx, prepID)
  if err != nil {
    return nil, err
  }

  day := types.DayOf(contestDate)
  db := s.db
  if tx != nil {
    db = tx
  }
  var rows []*types.PeakWeekDay
  err = db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
    if err := s.prepRepo.UpdateFields(ctx, txn, prep.ID, map[string]interface{}{
      "contest_date": day,
    }); err != nil {
      return err
    }
    existing, err := s.peakWeekRepo.GetByPrepID(ctx, txn, prep.ID)
    if err != nil {
      return err
    }
    rows = regeneratePeakWeek(prep.ID, day, existing)
    return s.peakWeekRepo.ReplaceForPrep(ctx, txn, prep.ID, rows)
  })
  if err != nil {
    s.log.Warn("SetContestDate: regeneration failed", "error", err, "prep_id", prepID)
    return nil, err
  }

  s.log.Info("peak week regenerated",
    "prep_id", prep.ID,
    "contest_date", day.Format("2006-01-02"),
  )
  s.emitter.Emit(ctx, sse.SSEMessage{
    Channel: prep.UserID.String(),
    Event:   sse.SSEEventPeakWeekRegenerated,
    Data: map[string]any{
      "contest_prep_id": prep.ID,
      "contest_date":    day.Format("2006-01-02"),
    },
  })
  return rows, nil
}

func (s *peakWeekService) Get(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) ([]*types.PeakWeekDay, error) {
  prep, err := s.ownedPrep(ctx, tx, prepID)
  if err != nil {
    return nil, err
  }
  rows, err := s.peakWeekRepo.GetByPrepID(ctx, tx, prep.ID)
  if err != nil {
    return nil, err
  }
  if len(rows) == 0 {
    return nil, fmt.Errorf("%w: peak week not generated, set a contest date first", ErrNotFound)
  }
  return rows, nil
}

func (s *peakWeekService) RecordObservation(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, day int, input RecordObservationInput) (*types.PeakWeekDay, error) {
  prep, err := s.ownedPrep(ctx, tx, prepID)
  if err != nil {
    return nil, err
  }
  if day < 1 || day > 7 {
    return nil, fmt.Errorf("%w: day must be between 1 and 7", ErrValidation)
  }
  for _, rating := range []*int{input.Energy, input.Fullness, input.Vascularity, input.Conditioning} {
    if rating != nil && (*rating < 1 || *rating > 5) {
      return nil, fmt.Errorf("%w: ratings must be between 1 and 5", ErrValidation)
    }
  }

  row, err := s.peakWeekRepo.GetByPrepAndDay(ctx, tx, prep.ID, day)
  if err != nil {
    return nil, err
  }
  if row == nil {
    return nil, fmt.Errorf("%w: peak week not generated, set a contest date first", ErrNotFound)
  }

  updates := map[string]interface{}{}
  if input.Weight != nil {
    updates["weight"] = *input.Weight
  }
  if input.Energy != nil {
    updates["energy"] = *input.Energy
  }
  if input.Fullness != nil {
    updates["fullness"] = *input.Fullness
  }
  if input.Vascularity != nil {
    updates["vascularity"] = *input.Vascularity
  }
  if input.Conditioning != nil {
    updates["conditioning"] = *input.Conditioning
  }
  if input.Photos != nil {
    updates["photos"] = datatypes.NewJSONType(input.Photos)
  }
  if input.Notes != nil {
    updates["notes"] = *input.Notes
  }
  if input.Completed != nil {
    updates["completed"] = *input.Completed
  }
  if len(updates) > 0 {
    if _, err := s.peakWeekRepo.UpdateObservation(ctx, tx, row.ID, updates); err != nil {
      s.log.Warn("RecordObservation: update failed", "error", err, "prep_id", prepID, "day", day)
      return nil, err
    }
  }

  return s.peakWeekRepo.GetByPrepAndDay(ctx, tx, prep.ID, day)
}

func (s *peakWeekService) ownedPrep(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) (*types.ContestPrep, error) {
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

// regeneratePeakWeek builds the seven rows for a contest date. Dates are
// anchored to the contest: day N falls N-1 days before it. Observations
// from existing rows carry over by day number so moving the date never
// loses recorded check-ins. Pure aside from uuid generation.
func regeneratePeakWeek(prepID uuid.UUID, contestDate time.Time, existing []*types.PeakWeekDay) []*types.PeakWeekDay {
  byDay := make(map[int]*types.PeakWeekDay, len(existing))
  for _, row := range existing {
    byDay[row.Day] = row
  }

  rows := make([]*types.PeakWeekDay, 0, len(peakWeekTable))
  for _, p := range peakWeekTable {
    row := &types.PeakWeekDay{
      ContestPrepID: prepID,
      Day:           p.Day,
      Date:          contestDate.AddDate(0, 0, -(p.Day - 1)),
      Water:         p.Water,
      Carbs:         p.Carbs,
      Sodium:        p.Sodium,
      Training:      p.Training,
      Cardio:        p.Cardio,
      Note:          p.Note,
    }
    if prev, ok := byDay[p.Day]; ok {
      row.Weight = prev.Weight
      row.Energy = prev.Energy
      row.Fullness = prev.Fullness
      row.Vascularity = prev.Vascularity
      row.Conditioning = prev.Conditioning
      row.Photos = prev.Photos
      row.Notes = prev.Notes
      row.Completed = prev.Completed
    }
    rows = append(rows, row)
  }
  return rows
}
