package services

import (
  "testing"
  "time"

  "github.com/google/uuid"

  "github.com/peakform/peakform-backend/internal/types"
)

func TestRegeneratePeakWeek_SevenRowsCountingDown(t *testing.T) {
  prepID := uuid.New()
  contestDate := time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC)

  rows := regeneratePeakWeek(prepID, contestDate, nil)
  if len(rows) != 7 {
    t.Fatalf("expected 7 rows, got %d", len(rows))
  }
  for i, row := range rows {
    wantDay := 7 - i
    if row.Day != wantDay {
      t.Fatalf("row %d: expected day %d, got %d", i, wantDay, row.Day)
    }
    wantDate := contestDate.AddDate(0, 0, -(wantDay - 1))
    if !row.Date.Equal(wantDate) {
      t.Fatalf("day %d: expected date %v, got %v", row.Day, wantDate, row.Date)
    }
    if row.ContestPrepID != prepID {
      t.Fatalf("day %d: wrong prep id", row.Day)
    }
  }
  // Day 1 lands on the contest itself.
  if !rows[6].Date.Equal(contestDate) {
    t.Fatalf("day 1 should fall on the contest date, got %v", rows[6].Date)
  }
}

func TestRegeneratePeakWeek_PrescriptionTable(t *testing.T) {
  rows := regeneratePeakWeek(uuid.New(), time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC), nil)

  byDay := map[int]*types.PeakWeekDay{}
  for _, row := range rows {
    byDay[row.Day] = row
  }

  d7 := byDay[7]
  if d7.Water != "4-5L" || d7.Carbs != "2g/kg" || d7.Sodium != "normal" {
    t.Fatalf("unexpected day 7 prescription: %+v", d7)
  }
  if d7.Training != "light full-body" || d7.Cardio != "20 min steady" {
    t.Fatalf("unexpected day 7 training/cardio: %q %q", d7.Training, d7.Cardio)
  }

  d1 := byDay[1]
  if d1.Water != "minimal sips" || d1.Sodium != "none" || d1.Training != "complete rest" {
    t.Fatalf("unexpected day 1 prescription: %+v", d1)
  }

  d2 := byDay[2]
  if d2.Sodium != "none" {
    t.Fatalf("sodium should be cut by day 2, got %q", d2.Sodium)
  }
  d3 := byDay[3]
  if d3.Carbs != "3-4g/kg" {
    t.Fatalf("carb-up should start on day 3, got %q", d3.Carbs)
  }
}

func TestRegeneratePeakWeek_PreservesObservationsByDay(t *testing.T) {
  prepID := uuid.New()
  firstDate := time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC)

  rows := regeneratePeakWeek(prepID, firstDate, nil)

  // Record observations on day 7 as the hydration starts.
  weight := 92.4
  energy := 4
  for _, row := range rows {
    if row.Day == 7 {
      row.Weight = &weight
      row.Energy = &energy
      row.Notes = "flat but dry"
      row.Completed = true
    }
  }

  // Contest slips a week; prescriptions move, observations stay.
  newDate := time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC)
  regenerated := regeneratePeakWeek(prepID, newDate, rows)

  var d7 *types.PeakWeekDay
  for _, row := range regenerated {
    if row.Day == 7 {
      d7 = row
    }
  }
  if d7 == nil {
    t.Fatalf("missing day 7 after regeneration")
  }
  if !d7.Date.Equal(newDate.AddDate(0, 0, -6)) {
    t.Fatalf("day 7 date should track the new contest date, got %v", d7.Date)
  }
  if d7.Weight == nil || *d7.Weight != weight {
    t.Fatalf("weight observation lost in regeneration")
  }
  if d7.Energy == nil || *d7.Energy != energy {
    t.Fatalf("energy observation lost in regeneration")
  }
  if d7.Notes != "flat but dry" || !d7.Completed {
    t.Fatalf("notes/completed lost in regeneration")
  }
  if d7.Water != "4-5L" {
    t.Fatalf("prescribed fields must come from the table, got %q", d7.Water)
  }

  // Days without observations stay clean.
  for _, row := range regenerated {
    if row.Day != 7 && (row.Weight != nil || row.Energy != nil || row.Completed) {
      t.Fatalf("day %d unexpectedly carries observations", row.Day)
    }
  }
}
