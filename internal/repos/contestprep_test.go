package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/peakform/peakform-backend/internal/repos/testutil"
	"github.com/peakform/peakform-backend/internal/types"
)

func TestContestPrepRepo_CreateAndGetByUserID(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewContestPrepRepo(db, testutil.Logger(t))

	userID := uuid.New()
	first := &types.ContestPrep{
		UserID: userID,
		Name:   "spring qualifier",
		MacroPlan: datatypes.NewJSONType(types.MacroPlan{
			HighCalories: 2900,
			LowCalories:  2300,
		}),
	}
	second := &types.ContestPrep{
		UserID: userID,
		Name:   "summer classic",
	}

	if _, err := repo.Create(ctx, tx, []*types.ContestPrep{first}); err != nil {
		t.Fatalf("Create first: %v", err)
	}
	if _, err := repo.Create(ctx, tx, []*types.ContestPrep{second}); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if first.ID == uuid.Nil || second.ID == uuid.Nil {
		t.Fatalf("expected ids assigned on create")
	}

	preps, err := repo.GetByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(preps) != 2 {
		t.Fatalf("expected 2 preps, got %d", len(preps))
	}

	// Another user sees nothing.
	other, err := repo.GetByUserID(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("GetByUserID other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no preps for other user, got %d", len(other))
	}
}

func TestContestPrepRepo_UpdateFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewContestPrepRepo(db, testutil.Logger(t))

	prep := &types.ContestPrep{
		UserID: uuid.New(),
		Name:   "fall invitational",
	}
	if _, err := repo.Create(ctx, tx, []*types.ContestPrep{prep}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	contestDate := time.Date(2025, time.October, 11, 0, 0, 0, 0, time.UTC)
	err := repo.UpdateFields(ctx, tx, prep.ID, map[string]interface{}{
		"contest_date": contestDate,
		"macro_plan": datatypes.NewJSONType(types.MacroPlan{
			HighCalories: 3100,
			LowCalories:  2400,
			ProteinG:     210,
		}),
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{prep.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(got))
	}
	if got[0].ContestDate == nil || !got[0].ContestDate.Equal(contestDate) {
		t.Fatalf("contest date not persisted: %v", got[0].ContestDate)
	}
	if got[0].MacroPlan.Data().HighCalories != 3100 {
		t.Fatalf("macro plan not persisted: %+v", got[0].MacroPlan.Data())
	}
}
