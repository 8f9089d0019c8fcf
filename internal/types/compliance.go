package types

// CategoryCompliance is the completion ratio of one instance category
// over a window.
type CategoryCompliance struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// ComplianceReport is derived, never persisted. Categories with no
// instances in the window are absent from Categories (not 0%), and
// Overall is nil when no category had instances. Overall is the
// unweighted mean of the included category percents.
type ComplianceReport struct {
	Categories map[ProtocolType]CategoryCompliance `json:"categories"`
	Overall    *float64                            `json:"overall,omitempty"`
}
