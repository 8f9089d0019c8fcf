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

// Deleting a protocol retires it from scheduling only; the instances
// and execution records it produced stay part of the prep's history.
func TestProtocolService_DeleteRetainsInstancesAndHistory(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	prepRepo := repos.NewContestPrepRepo(tx, log)
	protocolRepo := repos.NewAutomatedProtocolRepo(tx, log)
	recordRepo := repos.NewExecutionRecordRepo(tx, log)
	instanceRepo := repos.NewProtocolInstanceRepo(tx, log)

	executionSvc := NewExecutionService(tx, log, prepRepo, protocolRepo, recordRepo, instanceRepo, NoopEmitter{})
	protocolSvc := NewProtocolService(tx, log, prepRepo, protocolRepo)
	instanceSvc := NewInstanceService(tx, log, prepRepo, instanceRepo, NoopEmitter{})
	complianceSvc := NewComplianceService(tx, log, prepRepo, instanceRepo)

	userID := uuid.New()
	prep := &types.ContestPrep{
		UserID: userID,
		Name:   "regionals",
		MacroPlan: datatypes.NewJSONType(types.MacroPlan{
			HighCalories: 3000,
			LowCalories:  2300,
			ProteinG:     210,
			CarbsG:       260,
			FatG:         65,
			HighDays:     []int{2},
		}),
	}
	if _, err := prepRepo.Create(context.Background(), nil, []*types.ContestPrep{prep}); err != nil {
		t.Fatalf("seed prep: %v", err)
	}
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})

	protocol, err := protocolSvc.Create(ctx, nil, prep.ID, types.ProtocolCalorieCycling, types.Schedule{Frequency: types.FrequencyDaily})
	if err != nil {
		t.Fatalf("create protocol: %v", err)
	}

	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	result, err := executionSvc.Execute(ctx, protocol.ID, day)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Skipped || len(result.Created) == 0 {
		t.Fatalf("expected execution to create instances, got %+v", result)
	}

	if err := protocolSvc.Delete(ctx, nil, protocol.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := protocolSvc.Get(ctx, nil, protocol.ID); err == nil {
		t.Fatalf("expected deleted protocol to be gone from reads")
	}

	instances, err := instanceSvc.List(ctx, nil, prep.ID, repos.InstanceFilter{})
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(instances) != len(result.Created) {
		t.Fatalf("expected %d retained instances, got %d", len(result.Created), len(instances))
	}

	report, err := complianceSvc.Compute(ctx, nil, prep.ID, day, day)
	if err != nil {
		t.Fatalf("Compute after delete: %v", err)
	}
	cat, ok := report.Categories[types.ProtocolCalorieCycling]
	if !ok || cat.Total != len(result.Created) {
		t.Fatalf("expected compliance to still count retained instances, got %+v", report.Categories)
	}

	records, err := recordRepo.GetByProtocolIDs(context.Background(), nil, []uuid.UUID{protocol.ID})
	if err != nil {
		t.Fatalf("GetByProtocolIDs after delete: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected execution record to survive protocol delete, got %d", len(records))
	}
}
