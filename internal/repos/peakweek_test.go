package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/peakform/peakform-backend/internal/repos/testutil"
	"github.com/peakform/peakform-backend/internal/types"
)

func seedWeek(prepID uuid.UUID, contestDate time.Time) []*types.PeakWeekDay {
	rows := make([]*types.PeakWeekDay, 0, 7)
	for day := 7; day >= 1; day-- {
		rows = append(rows, &types.PeakWeekDay{
			ContestPrepID: prepID,
			Day:           day,
			Date:          contestDate.AddDate(0, 0, -(day - 1)),
			Water:         "4-5L",
			Carbs:         "2g/kg",
			Sodium:        "normal",
			Training:      "light full-body",
			Cardio:        "20 min steady",
		})
	}
	return rows
}

func TestPeakWeekRepo_ReplaceForPrep(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewPeakWeekRepo(db, testutil.Logger(t))

	prepID := uuid.New()
	contestDate := time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC)

	if err := repo.ReplaceForPrep(ctx, tx, prepID, seedWeek(prepID, contestDate)); err != nil {
		t.Fatalf("ReplaceForPrep: %v", err)
	}

	rows, err := repo.GetByPrepID(ctx, tx, prepID)
	if err != nil {
		t.Fatalf("GetByPrepID: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(rows))
	}
	if rows[0].Day != 7 || rows[6].Day != 1 {
		t.Fatalf("expected day 7 first, day 1 last, got %d..%d", rows[0].Day, rows[6].Day)
	}

	// Replacing with a shifted week leaves exactly 7 rows, no leftovers.
	newDate := contestDate.AddDate(0, 0, 7)
	if err := repo.ReplaceForPrep(ctx, tx, prepID, seedWeek(prepID, newDate)); err != nil {
		t.Fatalf("ReplaceForPrep shifted: %v", err)
	}
	rows, err = repo.GetByPrepID(ctx, tx, prepID)
	if err != nil {
		t.Fatalf("GetByPrepID shifted: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows after replace, got %d", len(rows))
	}
	if !rows[6].Date.Equal(newDate) {
		t.Fatalf("day 1 should land on the new contest date, got %v", rows[6].Date)
	}
}

func TestPeakWeekRepo_UpdateObservation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewPeakWeekRepo(db, testutil.Logger(t))

	prepID := uuid.New()
	contestDate := time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC)
	if err := repo.ReplaceForPrep(ctx, tx, prepID, seedWeek(prepID, contestDate)); err != nil {
		t.Fatalf("seed week: %v", err)
	}

	row, err := repo.GetByPrepAndDay(ctx, tx, prepID, 4)
	if err != nil || row == nil {
		t.Fatalf("GetByPrepAndDay: row=%v err=%v", row, err)
	}

	affected, err := repo.UpdateObservation(ctx, tx, row.ID, map[string]interface{}{
		"weight":    91.2,
		"energy":    3,
		"completed": true,
	})
	if err != nil {
		t.Fatalf("UpdateObservation: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	row, err = repo.GetByPrepAndDay(ctx, tx, prepID, 4)
	if err != nil || row == nil {
		t.Fatalf("reload: row=%v err=%v", row, err)
	}
	if row.Weight == nil || *row.Weight != 91.2 || row.Energy == nil || *row.Energy != 3 || !row.Completed {
		t.Fatalf("observation not persisted: %+v", row)
	}

	// Prescribed fields untouched.
	if row.Water != "4-5L" {
		t.Fatalf("prescribed water changed: %q", row.Water)
	}
}
