package domain

import "time"

// InvitationStatus is owned by the content store; this service only reads it.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationConsumed InvitationStatus = "consumed"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation is a one-time sign-up link record.
type Invitation struct {
	ID        string           `json:"_id"`
	Token     string           `json:"token"`
	Email     string           `json:"email,omitempty"`
	Role      string           `json:"role,omitempty"`
	Status    InvitationStatus `json:"status"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Usable reports whether the invitation can still be redeemed at now.
func (i *Invitation) Usable(now time.Time) bool {
	return i.Status == InvitationPending && i.ExpiresAt.After(now)
}
