package view

import "time"

// Severity only affects how an alert is styled
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Alert is a transient status banner
type Alert struct {
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the alert is still visible at now
func (a *Alert) Active(now time.Time) bool {
	return a != nil && now.Before(a.ExpiresAt)
}

// Remaining is the visible lifetime left at now, never negative
func (a *Alert) Remaining(now time.Time) time.Duration {
	if !a.Active(now) {
		return 0
	}
	return a.ExpiresAt.Sub(now)
}
