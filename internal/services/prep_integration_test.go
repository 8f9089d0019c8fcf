package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/peakform/peakform-backend/internal/repos"
	"github.com/peakform/peakform-backend/internal/repos/testutil"
	"github.com/peakform/peakform-backend/internal/requestdata"
)

func newPrepFixture(t *testing.T) (ContestPrepService, PeakWeekService, repos.PeakWeekRepo, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	prepRepo := repos.NewContestPrepRepo(tx, log)
	peakWeekRepo := repos.NewPeakWeekRepo(tx, log)

	prepSvc := NewContestPrepService(tx, log, prepRepo, peakWeekRepo)
	peakWeekSvc := NewPeakWeekService(tx, log, prepRepo, peakWeekRepo, NoopEmitter{})

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: uuid.New()})
	return prepSvc, peakWeekSvc, peakWeekRepo, ctx
}

func TestContestPrepService_CreateWithContestDateSeedsPeakWeek(t *testing.T) {
	prepSvc, peakWeekSvc, peakWeekRepo, ctx := newPrepFixture(t)

	contestDate := time.Date(2025, time.September, 13, 0, 0, 0, 0, time.UTC)
	prep, err := prepSvc.Create(ctx, nil, CreatePrepInput{Name: "fall classic", ContestDate: &contestDate})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := peakWeekRepo.GetByPrepID(context.Background(), nil, prep.ID)
	if err != nil {
		t.Fatalf("GetByPrepID: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("expected 7 peak week rows after create, got %d", len(rows))
	}
	for _, row := range rows {
		want := contestDate.AddDate(0, 0, -(row.Day - 1))
		if !row.Date.Equal(want) {
			t.Fatalf("day %d: date %v, want %v", row.Day, row.Date, want)
		}
	}

	// The week is readable right away, no separate contest-date update needed.
	if _, err := peakWeekSvc.Get(ctx, nil, prep.ID); err != nil {
		t.Fatalf("Get after create: %v", err)
	}
}

func TestContestPrepService_CreateWithoutContestDateLeavesPeakWeekEmpty(t *testing.T) {
	prepSvc, peakWeekSvc, peakWeekRepo, ctx := newPrepFixture(t)

	prep, err := prepSvc.Create(ctx, nil, CreatePrepInput{Name: "offseason"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := peakWeekRepo.GetByPrepID(context.Background(), nil, prep.ID)
	if err != nil {
		t.Fatalf("GetByPrepID: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no peak week rows without a contest date, got %d", len(rows))
	}
	if _, err := peakWeekSvc.Get(ctx, nil, prep.ID); err == nil {
		t.Fatalf("expected not-found for peak week before a contest date is set")
	}
}
