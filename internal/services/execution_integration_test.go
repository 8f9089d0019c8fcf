package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/peakform/peakform-backend/internal/repos"
	"github.com/peakform/peakform-backend/internal/repos/testutil"
	"github.com/peakform/peakform-backend/internal/requestdata"
	"github.com/peakform/peakform-backend/internal/types"
)

// The service runs its own transactions, so it gets the test tx as its
// db handle; gorm nests those as savepoints and the outer rollback
// cleans everything up.
func newExecutionFixture(t *testing.T) (ExecutionService, context.Context, *types.ContestPrep, repos.AutomatedProtocolRepo) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	prepRepo := repos.NewContestPrepRepo(tx, log)
	protocolRepo := repos.NewAutomatedProtocolRepo(tx, log)
	recordRepo := repos.NewExecutionRecordRepo(tx, log)
	instanceRepo := repos.NewProtocolInstanceRepo(tx, log)

	svc := NewExecutionService(tx, log, prepRepo, protocolRepo, recordRepo, instanceRepo, NoopEmitter{})

	userID := uuid.New()
	prep := &types.ContestPrep{
		UserID: userID,
		Name:   "nationals",
		MacroPlan: datatypes.NewJSONType(types.MacroPlan{
			HighCalories: 2800,
			LowCalories:  2200,
			ProteinG:     200,
			CarbsG:       250,
			FatG:         60,
			HighDays:     []int{1},
		}),
	}
	created, err := prepRepo.Create(context.Background(), nil, []*types.ContestPrep{prep})
	if err != nil {
		t.Fatalf("seed prep: %v", err)
	}

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
	return svc, ctx, created[0], protocolRepo
}

func seedActiveProtocol(t *testing.T, ctx context.Context, protocolRepo repos.AutomatedProtocolRepo, prep *types.ContestPrep, schedule types.Schedule) *types.AutomatedProtocol {
	t.Helper()
	created, err := protocolRepo.Create(ctx, nil, []*types.AutomatedProtocol{{
		ContestPrepID: prep.ID,
		Type:          types.ProtocolCalorieCycling,
		Schedule:      datatypes.NewJSONType(schedule),
		IsActive:      true,
	}})
	if err != nil {
		t.Fatalf("seed protocol: %v", err)
	}
	return created[0]
}

func TestExecutionService_ExecuteThenReplayIsIdempotent(t *testing.T) {
	svc, ctx, prep, protocolRepo := newExecutionFixture(t)
	protocol := seedActiveProtocol(t, ctx, protocolRepo, prep, types.Schedule{Frequency: types.FrequencyDaily})

	day := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)

	first, err := svc.Execute(ctx, protocol.ID, day)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.Skipped {
		t.Fatalf("first execution should not be skipped: %+v", first)
	}
	if len(first.Created) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(first.Created))
	}

	replay, err := svc.Execute(ctx, protocol.ID, day)
	if err != nil {
		t.Fatalf("Execute replay: %v", err)
	}
	if !replay.Skipped || replay.Reason != SkipReasonAlreadyExecuted {
		t.Fatalf("expected already_executed skip, got %+v", replay)
	}
	if len(replay.Created) != 1 || replay.Created[0].ID != first.Created[0].ID {
		t.Fatalf("replay should return the originally persisted instances")
	}

	// A later time on the same calendar day is still the same execution.
	sameDayLater := day.Add(18 * time.Hour)
	replay, err = svc.Execute(ctx, protocol.ID, sameDayLater)
	if err != nil {
		t.Fatalf("Execute same day later: %v", err)
	}
	if !replay.Skipped {
		t.Fatalf("expected same-day replay to be skipped")
	}
}

func TestExecutionService_InactiveProtocolSkips(t *testing.T) {
	svc, ctx, prep, protocolRepo := newExecutionFixture(t)
	protocol := seedActiveProtocol(t, ctx, protocolRepo, prep, types.Schedule{Frequency: types.FrequencyDaily})
	if _, err := protocolRepo.SetActive(ctx, nil, protocol.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	result, err := svc.Execute(ctx, protocol.ID, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Skipped || result.Reason != SkipReasonInactive {
		t.Fatalf("expected inactive skip, got %+v", result)
	}
	if len(result.Created) != 0 {
		t.Fatalf("inactive protocol must not create instances")
	}
}

func TestExecutionService_NotDueSkips(t *testing.T) {
	svc, ctx, prep, protocolRepo := newExecutionFixture(t)
	// Weekly on Mondays only.
	protocol := seedActiveProtocol(t, ctx, protocolRepo, prep, types.Schedule{
		Frequency:  types.FrequencyWeekly,
		DaysOfWeek: []int{1},
	})

	tuesday := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
	result, err := svc.Execute(ctx, protocol.ID, tuesday)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Skipped || result.Reason != SkipReasonNotDue {
		t.Fatalf("expected not_due skip, got %+v", result)
	}

	// Not-due days leave no record, so the due day still executes.
	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	result, err = svc.Execute(ctx, protocol.ID, monday)
	if err != nil {
		t.Fatalf("Execute monday: %v", err)
	}
	if result.Skipped {
		t.Fatalf("expected monday execution to proceed, got %+v", result)
	}
}

func TestExecutionService_OwnershipHidesForeignProtocols(t *testing.T) {
	svc, _, prep, protocolRepo := newExecutionFixture(t)
	protocol := seedActiveProtocol(t, context.Background(), protocolRepo, prep, types.Schedule{Frequency: types.FrequencyDaily})

	stranger := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: uuid.New()})
	if _, err := svc.Execute(stranger, protocol.ID, time.Now().UTC()); err == nil {
		t.Fatalf("expected not-found for another user's protocol")
	}
}
