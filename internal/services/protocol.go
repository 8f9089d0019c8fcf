package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/peakform/peakform-backend/internal/logger"
  "github.com/peakform/peakform-backend/internal/repos"
  "github.com/peakform/peakform-backend/internal/requestdata"
  "github.com/peakform/peakform-backend/internal/types"
)

type ProtocolService interface {
  Create(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, protocolType types.ProtocolType, schedule types.Schedule) (*types.AutomatedProtocol, error)
  Get(ctx context.Context, tx *gorm.DB, protocolID uuid.UUID) (*types.AutomatedProtocol, error)
  ListForPrep(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) ([]*types.AutomatedProtocol, error)
  SetActive(ctx context.Context, tx *gorm.DB, protocolID uuid.UUID, active bool) error
  Delete(ctx context.Context, tx *gorm.DB, protocolID uuid.UUID) error
}

type protocolService struct {
  db           *gorm.DB
  log          *logger.Logger
  prepRepo     repos.ContestPrepRepo
  protocolRepo repos.AutomatedProtocolRepo
}

func NewProtocolService(
  db *gorm.DB,
  baseLog *logger.Logger,
  prepRepo repos.ContestPrepRepo,
  protocolRepo repos.AutomatedProtocolRepo,
) ProtocolService {
  return &protocolService{
    db:           db,
    log:          baseLog.With("service", "ProtocolService"),
    prepRepo:     prepRepo,
    protocolRepo: protocolRepo,
  }
}

func (s *protocolService) Create(ctx context.Context, tx *gorm.DB, prepID uuid.UUID, protocolType types.ProtocolType, schedule types.Schedule) (*types.AutomatedProtocol, error) {
  if _, err := s.ownedPrep(ctx, tx, prepID); err != nil {
    return nil, err
  }
  if err := protocolType.Validate(); err != nil {
    return nil, fmt.Errorf("%w: %v", ErrValidation, err)
  }
  // Malformed schedules are rejected here so the execution engine never
  // has a partial-failure path.
  if err := schedule.Validate(); err != nil {
    return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
  }

  protocol := &types.AutomatedProtocol{
    ContestPrepID: prepID,
    Type:          protocolType,
    Schedule:      datatypes.NewJSONType(schedule),
    IsActive:      true,
  }
  created, err := s.protocolRepo.Create(ctx, tx, []*types.AutomatedProtocol{protocol})
  if err != nil {
    s.log.Warn("Create: insert failed", "error", err, "prep_id", prepID)
    return nil, err
  }
  s.log.Info("protocol created", "protocol_id", created[0].ID, "type", protocolType, "prep_id", prepID)
  return created[0], nil
}

func (s *protocolService) Get(ctx context.Context, tx *gorm.DB, protocolID uuid.UUID) (*types.AutomatedProtocol, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("not authenticated")
  }
  if protocolID == uuid.Nil {
    return nil, fmt.Errorf("%w: protocol", ErrNotFound)
  }

  protocols, err := s.protocolRepo.GetByIDsWithHistory(ctx, tx, []uuid.UUID{protocolID})
  if err != nil {
    return nil, err
  }
  if len(protocols) == 0 || protocols[0] == nil {
    return nil, fmt.Errorf("%w: protocol", ErrNotFound)
  }
  protocol := protocols[0]
  if _, err := s.ownedPrep(ctx, tx, protocol.ContestPrepID); err != nil {
    return nil, err
  }
  return protocol, nil
}

func (s *protocolService) ListForPrep(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) ([]*types.AutomatedProtocol, error) {
  if _, err := s.ownedPrep(ctx, tx, prepID); err != nil {
    return nil, err
  }
  return s.protocolRepo.GetByPrepIDs(ctx, tx, []uuid.UUID{prepID})
}

// SetActive toggles a protocol; it affects future executions only and
// never retracts already-generated instances.
func (s *protocolService) SetActive(ctx context.Context, tx *gorm.DB, protocolID uuid.UUID, active bool) error {
  if _, err := s.ownedProtocol(ctx, tx, protocolID); err != nil {
    return err
  }
  affected, err := s.protocolRepo.SetActive(ctx, tx, protocolID, active)
  if err != nil {
    s.log.Warn("SetActive: update failed", "error", err, "protocol_id", protocolID)
    return err
  }
  if affected == 0 {
    return fmt.Errorf("%w: protocol", ErrNotFound)
  }
  return nil
}

// Delete soft-deletes the protocol. Its execution history and generated
// instances are retained as historical fact.
func (s *protocolService) Delete(ctx context.Context, tx *gorm.DB, protocolID uuid.UUID) error {
  if _, err := s.ownedProtocol(ctx, tx, protocolID); err != nil {
    return err
  }
  if err := s.protocolRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{protocolID}); err != nil {
    s.log.Warn("Delete: delete failed", "error", err, "protocol_id", protocolID)
    return err
  }
  s.log.Info("protocol deleted", "protocol_id", protocolID)
  return nil
}

func (s *protocolService) ownedProtocol(ctx context.Context, tx *gorm.DB, protocolID uuid.UUID) (*types.AutomatedProtocol, error) {
  if protocolID == uuid.Nil {
    return nil, fmt.Errorf("%w: protocol", ErrNotFound)
  }
  protocols, err := s.protocolRepo.GetByIDs(ctx, tx, []uuid.UUID{protocolID})
  if err != nil {
    return nil, err
  }
  if len(protocols) == 0 || protocols[0] == nil {
    return nil, fmt.Errorf("%w: protocol", ErrNotFound)
  }
  if _, err := s.ownedPrep(ctx, tx, protocols[0].ContestPrepID); err != nil {
    return nil, err
  }
  return protocols[0], nil
}

func (s *protocolService) ownedPrep(ctx context.Context, tx *gorm.DB, prepID uuid.UUID) (*types.ContestPrep, error) {
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
