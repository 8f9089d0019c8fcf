package types

import "time"

// DayOf truncates a timestamp to its calendar day in UTC. All schedule
// matching, idempotency keys and peak-week dates operate on these
// normalized values.
func DayOf(t time.Time) time.Time {
  t = t.UTC()
  return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
  return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}
