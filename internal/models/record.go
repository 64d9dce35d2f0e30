package models

import "time"

// ActionRecord is one durable audit entry per executed or simulated action.
// Records are never mutated once appended to history.
type ActionRecord struct {
	ID          string      `json:"id"`
	RunID       string      `json:"run_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Action      Disposition `json:"action"`
	Source      string      `json:"source"`
	Destination *string     `json:"destination"`
	Category    string      `json:"category"`
	Reason      string      `json:"reason,omitempty"`
	DryRun      bool        `json:"dry_run"`
	Success     bool        `json:"success"`
	Partial     bool        `json:"partial,omitempty"` // cross-device copy landed but source removal failed
	Error       *string     `json:"error"`
}

// DestinationPath returns the destination or an empty string.
func (r ActionRecord) DestinationPath() string {
	if r.Destination == nil {
		return ""
	}
	return *r.Destination
}

// ErrorMessage returns the error text or an empty string.
func (r ActionRecord) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// Applied reports whether the record describes a live, successful mutation.
func (r ActionRecord) Applied() bool {
	return r.Success && !r.DryRun && r.Action != DispositionKeep
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
