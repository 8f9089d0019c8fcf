package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/repos"
  "github.com/peakform/peakform-backend/internal/requestdata"
  "github.com/peakform/peakform-backend/internal/sse"
  "github.com/peakform/peakform-backend/internal/types"
)

const (
  SkipReasonInactive        = "inactive"
  SkipReasonAlreadyExecuted = "already_executed"
  SkipReasonNotDue          = "not_due"
)

type ExecutionResult struct {
  Created []*types.ProtocolInstance `json:"created"`
  Skipped bool                      `json:"skipped"`
  Reason  string                    `json:"reason,omitempty"`
}

type ExecutionService interface {
  // Execute materializes the instances a protocol is due to generate on
  // a calendar day. Idempotent per (protocol, date): re-invocation
  // returns the previously generated instances with Skipped=true.
  Execute(ctx context.Context, protocolID uuid.UUID, date time.Time) (*ExecutionResult, error)
  // RunDue executes every active protocol for the given day. Used by
  // the background sweep; skipped results are expected and silent.
  RunDue(ctx context.Context, date time.Time) error
  StartWorker(ctx context.Context, interval time.Duration)
}

type executionService struct {
  db           *gorm.DB
  log          *logger.Logger
  prepRepo     repos.ContestPrepRepo
  protocolRepo repos.AutomatedProtocolRepo
  recordRepo   repos.ExecutionRecordRepo
  instanceRepo repos.ProtocolInstanceRepo
  emitter      SSEEmitter
}

func NewExecutionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  prepRepo repos.ContestPrepRepo,
  protocolRepo repos.AutomatedProtocolRepo,
  recordRepo repos.ExecutionRecordRepo,
  instanceRepo repos.ProtocolInstanceRepo,
  emitter SSEEmitter,
) ExecutionService {
  if emitter == nil {
    emitter = NoopEmitter{}
  }
  return &executionService{
    db:           db,
    log:          baseLog.With("service", "ExecutionService"),
    prepRepo:     prepRepo,
    protocolRepo: protocolRepo,
    recordRepo:   recordRepo,
    instanceRepo: instanceRepo,
    emitter:      emitter,
  }
}

func (s *executionService) Execute(ctx context.Context, protocolID uuid.UUID, date time.Time) (*ExecutionResult, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("not authenticated")
  }
  if protocolID == uuid.Nil {
    return nil, fmt.Errorf("%w: protocol", ErrNotFound)
  }

  protocols, err := s.protocolRepo.GetByIDs(ctx, nil, []uuid.UUID{protocolID})
  if err != nil {
    return nil, err
  }
  if len(protocols) == 0 || protocols[0] == nil {
    return nil, fmt.Errorf("%w: protocol", ErrNotFound)
  }
  protocol := protocols[0]

  preps, err := s.prepRepo.GetByIDs(ctx, nil, []uuid.UUID{protocol.ContestPrepID})
  if err != nil {
    return nil, err
  }
  if len(preps) == 0 || preps[0] == nil || preps[0].UserID != rd.UserID {
    return nil, fmt.Errorf("%w: protocol", ErrNotFound)
  }

  return s.execute(ctx, protocol, preps[0], date)
}

// execute runs the engine for one (protocol, date). The whole run is a
// single transaction; the unique indexes on execution_record and
// protocol_instance make the insert conditional, so a raced duplicate
// collapses into the idempotent skipped result instead of failing.
func (s *executionService) execute(ctx context.Context, protocol *types.AutomatedProtocol, prep *types.ContestPrep, date time.Time) (*ExecutionResult, error) {
  day := types.DayOf(date)
  result := &ExecutionResult{Created: []*types.ProtocolInstance{}}

  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, err := s.recordRepo.GetByProtocolAndDate(ctx, tx, protocol.ID, day)
    if err != nil {
      return err
    }
    if existing != nil {
      instances, err := s.instanceRepo.GetByIDs(ctx, tx, existing.InstanceIDs.Data())
      if err != nil {
        return err
      }
      result.Created = instances
      result.Skipped = true
      result.Reason = SkipReasonAlreadyExecuted
      return nil
    }

    if !protocol.IsActive {
      result.Skipped = true
      result.Reason = SkipReasonInactive
      return nil
    }

    if !protocol.Schedule.Data().Matches(day) {
      result.Skipped = true
      result.Reason = SkipReasonNotDue
      return nil
    }

    built, err := buildInstances(protocol, prep, day)
    if err != nil {
      return err
    }
    if _, err := s.instanceRepo.CreateConditional(ctx, tx, built); err != nil {
      return err
    }
    // Reload by key: collisions with instances from an earlier protocol
    // of the same category leave the earlier rows in place.
    persisted, err := s.instanceRepo.GetByPrepCategoryDate(ctx, tx, prep.ID, protocol.Type, day)
    if err != nil {
      return err
    }

    ids := make([]uuid.UUID, 0, len(persisted))
    for _, instance := range persisted {
      ids = append(ids, instance.ID)
    }
    record := &types.ExecutionRecord{
      ProtocolID:    protocol.ID,
      ContestPrepID: prep.ID,
      Date:          day,
      ExecutedAt:    time.Now().UTC(),
      InstanceIDs:   datatypes.NewJSONType(ids),
    }
    inserted, err := s.recordRepo.CreateConditional(ctx, tx, record)
    if err != nil {
      return err
    }
    if !inserted {
      // Lost the race after the precondition check; same contract as
      // "already executed".
      result.Created = persisted
      result.Skipped = true
      result.Reason = SkipReasonAlreadyExecuted
      return nil
    }

    result.Created = persisted
    return nil
  })
  if err != nil {
    s.log.Warn("execute failed", "error", err, "protocol_id", protocol.ID, "date", day.Format("2006-01-02"))
    return nil, err
  }

  if !result.Skipped && len(result.Created) > 0 {
    s.log.Info("protocol executed",
      "protocol_id", protocol.ID,
      "type", protocol.Type,
      "date", day.Format("2006-01-02"),
      "instances", len(result.Created),
    )
    s.emitter.Emit(ctx, sse.SSEMessage{
      Channel: prep.UserID.String(),
      Event:   sse.SSEEventProtocolExecuted,
      Data: map[string]any{
        "protocol_id":     protocol.ID,
        "contest_prep_id": prep.ID,
        "date":            day.Format("2006-01-02"),
        "created":         len(result.Created),
      },
    })
  }
  return result, nil
}

func (s *executionService) RunDue(ctx context.Context, date time.Time) error {
  protocols, err := s.protocolRepo.GetAllActive(ctx, nil)
  if err != nil {
    return err
  }
  if len(protocols) == 0 {
    return nil
  }

  prepIDSet := make(map[uuid.UUID]bool)
  prepIDs := make([]uuid.UUID, 0, len(protocols))
  for _, protocol := range protocols {
    if !prepIDSet[protocol.ContestPrepID] {
      prepIDSet[protocol.ContestPrepID] = true
      prepIDs = append(prepIDs, protocol.ContestPrepID)
    }
  }
  preps, err := s.prepRepo.GetByIDs(ctx, nil, prepIDs)
  if err != nil {
    return err
  }
  prepByID := make(map[uuid.UUID]*types.ContestPrep, len(preps))
  for _, prep := range preps {
    prepByID[prep.ID] = prep
  }

  g, groupCtx := errgroup.WithContext(ctx)
  g.SetLimit(8)
  for _, protocol := range protocols {
    prep := prepByID[protocol.ContestPrepID]
    if prep == nil {
      continue
    }
    g.Go(func() error {
      if _, err := s.execute(groupCtx, protocol, prep, date); err != nil {
        s.log.Warn("RunDue: protocol execution failed", "error", err, "protocol_id", protocol.ID)
      }
      return nil
    })
  }
  return g.Wait()
}

// StartWorker runs the due-execution sweep on a fixed interval. The
// sweep is idempotent, so overlapping manual executions are harmless.
func (s *executionService) StartWorker(ctx context.Context, interval time.Duration) {
  if interval <= 0 {
    interval = time.Hour
  }
  go func() {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()

    if err := s.RunDue(ctx, time.Now().UTC()); err != nil {
      s.log.Warn("initial sweep failed", "error", err)
    }
    for {
      select {
      case <-ctx.Done():
        return
      case now := <-ticker.C:
        if err := s.RunDue(ctx, now.UTC()); err != nil {
          s.log.Warn("sweep failed", "error", err)
        }
      }
    }
  }()
  s.log.Info("execution sweep worker started", "interval", interval.String())
}
