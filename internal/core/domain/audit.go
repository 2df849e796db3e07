package domain

import "time"

// LoginAttempt is a diagnostic record of a single credential check.
type LoginAttempt struct {
	Email    string
	Success  bool
	Reason   string
	RemoteIP string
	At       time.Time
}
