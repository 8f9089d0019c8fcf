package services

import (
  "context"
  "fmt"
  "sort"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/repos"
  "github.com/peakform/peakform-backend/internal/requestdata"
  "github.com/peakform/peakform-backend/internal/types"
)

type ComplianceService interface {
  Compute(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, from, to time.Time) (*types.ComplianceReport, error)
}

type complianceService struct {
  db           *gorm.DB
  log          *logger.Logger
  prepRepo     repos.ContestPrepRepo
  instanceRepo repos.ProtocolInstanceRepo
}

func NewComplianceService(
  db *gorm.DB,
  baseLog *logger.Logger,
  prepRepo repos.ContestPrepRepo,
  instanceRepo repos.ProtocolInstanceRepo,
) ComplianceService {
  return &complianceService{
    db:           db,
    log:          baseLog.With("service", "ComplianceService"),
    prepRepo:     prepRepo,
    instanceRepo: instanceRepo,
  }
}

func (s *complianceService) Compute(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, from, to time.Time) (*types.ComplianceReport, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("not authenticated")
  }
  preps, err := s.prepRepo.GetByIDs(ctx, tx, []uuid.UUID{prepID})
  if err != nil {
    return nil, err
  }
  if len(preps) == 0 || preps[0] == nil || preps[0].UserID != rd.UserID {
    return nil, fmt.Errorf("%w: contest prep", ErrNotFound)
  }

  instances, err := s.instanceRepo.GetByPrepID(ctx, tx, prepID, repos.InstanceFilter{From: &from, To: &to})
  if err != nil {
    return nil, err
  }
  report := computeCompliance(instances, from, to)
  return &report, nil
}

// computeCompliance derives a report from a set of instances over an
// inclusive window. Pure; safe to call concurrently. Categories with no
// instances in the window are omitted rather than reported as 0%, and
// the overall percentage is the unweighted mean of the included
// categories (a category with 1 instance weighs the same as one with
// 30).
func computeCompliance(instances []*types.ProtocolInstance, from, to time.Time) types.ComplianceReport {
  fromDay := types.DayOf(from)
  toDay := types.DayOf(to)

  completed := make(map[types.ProtocolType]int)
  total := make(map[types.ProtocolType]int)
  for _, instance := range instances {
    day := types.DayOf(instance.Date)
    if day.Before(fromDay) || day.After(toDay) {
      continue
    }
    total[instance.Category]++
    if instance.Completed {
      completed[instance.Category]++
    }
  }

  report := types.ComplianceReport{
    Categories: make(map[types.ProtocolType]types.CategoryCompliance, len(total)),
  }

  categories := make([]types.ProtocolType, 0, len(total))
  for category := range total {
    categories = append(categories, category)
  }
  sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

  var sum float64
  for _, category := range categories {
    percent := float64(completed[category]) / float64(total[category]) * 100
    report.Categories[category] = types.CategoryCompliance{
      Completed: completed[category],
      Total:     total[category],
      Percent:   percent,
    }
    sum += percent
  }
  if len(categories) > 0 {
    overall := sum / float64(len(categories))
    report.Overall = &overall
  }
  return report
}
