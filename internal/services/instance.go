package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/repos"
  "github.com/peakform/peakform-backend/internal/requestdata"
  "github.com/peakform/peakform-backend/internal/sse"
  "github.com/peakform/peakform-backend/internal/types"
)

type InstanceService interface {
  List(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, filter repos.InstanceFilter) ([]*types.ProtocolInstance, error)
  MarkCompleted(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, completed bool, notes *string) (*types.ProtocolInstance, error)
}

type instanceService struct {
  db           *gorm.DB
  log          *logger.Logger
  prepRepo     repos.ContestPrepRepo
  instanceRepo repos.ProtocolInstanceRepo
  emitter      SSEEmitter
}

func NewInstanceService(
  db *gorm.DB,
  baseLog *logger.Logger,
  prepRepo repos.ContestPrepRepo,
  instanceRepo repos.ProtocolInstanceRepo,
  emitter SSEEmitter,
) InstanceService {
  if emitter == nil {
    emitter = NoopEmitter{}
  }
  return &instanceService{
    db:           db,
    log:          baseLog.With("service", "InstanceService"),
    prepRepo:     prepRepo,
    instanceRepo: instanceRepo,
    emitter:      emitter,
  }
}

func (s *instanceService) List(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, filter repos.InstanceFilter) ([]*types.ProtocolInstance, error) {
  if _, err := s.ownedPrep(ctx, tx, prepID); err != nil {
    return nil, err
  }
  return s.instanceRepo.GetByPrepID(ctx, tx, prepID, filter)
}

func (s *instanceService) MarkCompleted(ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, completed bool, notes *string) (*types.ProtocolInstance, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("not authenticated")
  }
  if instanceID == uuid.Nil {
    return nil, fmt.Errorf("%w: instance", ErrNotFound)
  }

  instances, err := s.instanceRepo.GetByIDs(ctx, tx, []uuid.UUID{instanceID})
  if err != nil {
    return nil, err
  }
  if len(instances) == 0 || instances[0] == nil {
    return nil, fmt.Errorf("%w: instance", ErrNotFound)
  }
  instance := instances[0]

  prep, err := s.ownedPrep(ctx, tx, instance.ContestPrepID)
  if err != nil {
    return nil, err
  }

  var completedAt *time.Time
  if completed {
    now := time.Now().UTC()
    completedAt = &now
  }
  affected, err := s.instanceRepo.UpdateCompletion(ctx, tx, instanceID, completed, completedAt, notes)
  if err != nil {
    s.log.Warn("MarkCompleted: update failed", "error", err, "instance_id", instanceID)
    return nil, err
  }
  if affected == 0 {
    return nil, fmt.Errorf("%w: instance", ErrNotFound)
  }

  updated, err := s.instanceRepo.GetByIDs(ctx, tx, []uuid.UUID{instanceID})
  if err != nil || len(updated) == 0 {
    return nil, err
  }

  s.emitter.Emit(ctx, sse.SSEMessage{
    Channel: prep.UserID.String(),
    Event:   sse.SSEEventInstanceCompleted,
    Data: map[string]any{
      "instance_id":     instanceID,
      "contest_prep_id": prep.ID,
      "completed":       completed,
    },
  })
  return updated[0], nil
}

func (s *instanceService) ownedPrep(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) (*types.ContestPrep, error) {
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
  return preps[0], nil
}
