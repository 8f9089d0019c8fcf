package types

import (
  "fmt"
  "time"
)

type ScheduleFrequency string

const (
  FrequencyDaily    ScheduleFrequency = "daily"
  FrequencyWeekly   ScheduleFrequency = "weekly"
  FrequencyInterval ScheduleFrequency = "interval"
)

// Schedule describes when a protocol fires. It is a pure value object
// stored as jsonb on the owning protocol; Matches has no side effects
// and no I/O.
type Schedule struct {
  Frequency    ScheduleFrequency `json:"frequency"`
  DaysOfWeek   []int             `json:"days_of_week,omitempty"`   // 0=Sunday .. 6=Saturday
  IntervalDays int               `json:"interval_days,omitempty"`
  TimeOfDay    string            `json:"time_of_day,omitempty"`    // HH:MM
  AnchorDate   time.Time         `json:"anchor_date,omitempty"`    // interval reference, set at creation
}

// Validate rejects malformed schedules at protocol-creation time so the
// execution engine never sees one.
func (s Schedule) Validate() error {
  switch s.Frequency {
  case FrequencyDaily:
  case FrequencyWeekly:
    if len(s.DaysOfWeek) == 0 {
      return fmt.Errorf("weekly schedule requires at least one day of week")
    }
    for _, d := range s.DaysOfWeek {
      if d < 0 || d > 6 {
        return fmt.Errorf("day of week out of range: %d", d)
      }
    }
  case FrequencyInterval:
    if s.IntervalDays <= 0 {
      return fmt.Errorf("interval schedule requires interval_days > 0, got %d", s.IntervalDays)
    }
    if s.AnchorDate.IsZero() {
      return fmt.Errorf("interval schedule requires an anchor date")
    }
  default:
    return fmt.Errorf("unknown schedule frequency: %q", s.Frequency)
  }
  if s.TimeOfDay != "" {
    if _, err := time.Parse("15:04", s.TimeOfDay); err != nil {
      return fmt.Errorf("time_of_day must be HH:MM: %w", err)
    }
  }
  return nil
}

// Matches reports whether the protocol is due on the given calendar day.
func (s Schedule) Matches(date time.Time) bool {
  day := DayOf(date)
  switch s.Frequency {
  case FrequencyDaily:
    return true
  case FrequencyWeekly:
    weekday := int(day.Weekday())
    for _, d := range s.DaysOfWeek {
      if d == weekday {
        return true
      }
    }
    return false
  case FrequencyInterval:
    if s.IntervalDays <= 0 {
      return false
    }
    days := DaysBetween(s.AnchorDate, day)
    return days >= 0 && days%s.IntervalDays == 0
  default:
    return false
  }
}
