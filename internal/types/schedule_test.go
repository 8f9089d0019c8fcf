package types

import (
  "testing"
  "time"
)

func date(y int, m time.Month, d int) time.Time {
  return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScheduleValidate_Daily(t *testing.T) {
  s := Schedule{Frequency: FrequencyDaily}
  if err := s.Validate(); err != nil {
    t.Fatalf("expected valid daily schedule, got %v", err)
  }
}

func TestScheduleValidate_WeeklyRequiresDays(t *testing.T) {
  s := Schedule{Frequency: FrequencyWeekly}
  if err := s.Validate(); err == nil {
    t.Fatalf("expected error for weekly schedule without days")
  }
  s.DaysOfWeek = []int{7}
  if err := s.Validate(); err == nil {
    t.Fatalf("expected error for out-of-range day of week")
  }
  s.DaysOfWeek = []int{1, 4}
  if err := s.Validate(); err != nil {
    t.Fatalf("expected valid weekly schedule, got %v", err)
  }
}

func TestScheduleValidate_Interval(t *testing.T) {
  s := Schedule{Frequency: FrequencyInterval}
  if err := s.Validate(); err == nil {
    t.Fatalf("expected error for interval schedule without interval_days")
  }
  s.IntervalDays = 3
  if err := s.Validate(); err == nil {
    t.Fatalf("expected error for interval schedule without anchor date")
  }
  s.AnchorDate = date(2025, time.June, 1)
  if err := s.Validate(); err != nil {
    t.Fatalf("expected valid interval schedule, got %v", err)
  }
}

func TestScheduleValidate_TimeOfDay(t *testing.T) {
  s := Schedule{Frequency: FrequencyDaily, TimeOfDay: "25:00"}
  if err := s.Validate(); err == nil {
    t.Fatalf("expected error for malformed time_of_day")
  }
  s.TimeOfDay = "07:30"
  if err := s.Validate(); err != nil {
    t.Fatalf("expected valid time_of_day, got %v", err)
  }
}

func TestScheduleValidate_UnknownFrequency(t *testing.T) {
  s := Schedule{Frequency: "fortnightly"}
  if err := s.Validate(); err == nil {
    t.Fatalf("expected error for unknown frequency")
  }
}

func TestScheduleMatches_DailyAlwaysFires(t *testing.T) {
  s := Schedule{Frequency: FrequencyDaily}
  for d := 1; d <= 30; d++ {
    if !s.Matches(date(2025, time.June, d)) {
      t.Fatalf("daily schedule should match 2025-06-%02d", d)
    }
  }
}

func TestScheduleMatches_WeeklyFiresOnListedWeekdaysOnly(t *testing.T) {
  // Monday and Thursday over a full month.
  s := Schedule{Frequency: FrequencyWeekly, DaysOfWeek: []int{1, 4}}
  for d := 1; d <= 30; d++ {
    day := date(2025, time.June, d)
    want := day.Weekday() == time.Monday || day.Weekday() == time.Thursday
    if got := s.Matches(day); got != want {
      t.Fatalf("2025-06-%02d (%s): got %v want %v", d, day.Weekday(), got, want)
    }
  }
}

func TestScheduleMatches_IntervalAnchored(t *testing.T) {
  anchor := date(2025, time.June, 1)
  s := Schedule{Frequency: FrequencyInterval, IntervalDays: 3, AnchorDate: anchor}

  cases := []struct {
    day  time.Time
    want bool
  }{
    {date(2025, time.June, 1), true},
    {date(2025, time.June, 2), false},
    {date(2025, time.June, 3), false},
    {date(2025, time.June, 4), true},
    {date(2025, time.June, 7), true},
    {date(2025, time.May, 29), false}, // before the anchor
  }
  for _, tc := range cases {
    if got := s.Matches(tc.day); got != tc.want {
      t.Fatalf("%s: got %v want %v", tc.day.Format("2006-01-02"), got, tc.want)
    }
  }
}

func TestScheduleMatches_IgnoresTimeComponent(t *testing.T) {
  s := Schedule{
    Frequency:    FrequencyInterval,
    IntervalDays: 2,
    AnchorDate:   time.Date(2025, time.June, 1, 23, 59, 0, 0, time.UTC),
  }
  if !s.Matches(time.Date(2025, time.June, 3, 0, 1, 0, 0, time.UTC)) {
    t.Fatalf("interval matching should compare calendar days, not durations")
  }
}

func TestDayOf_TruncatesToUTCDay(t *testing.T) {
  in := time.Date(2025, time.June, 14, 18, 45, 12, 999, time.FixedZone("X", -4*3600))
  got := DayOf(in)
  want := date(2025, time.June, 14)
  if !got.Equal(want) {
    t.Fatalf("got %v want %v", got, want)
  }
}

func TestDaysBetween(t *testing.T) {
  a := date(2025, time.June, 1)
  if got := DaysBetween(a, date(2025, time.June, 10)); got != 9 {
    t.Fatalf("got %d want 9", got)
  }
  if got := DaysBetween(a, date(2025, time.May, 30)); got != -2 {
    t.Fatalf("got %d want -2", got)
  }
}
