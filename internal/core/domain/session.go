package domain

import "time"

// Session is the identity payload carried inside a signed session token.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`

	// Set by the issuer; zero on claims passed into Issue.
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// SessionFromUser freezes the user's identity and role at issuance time.
func SessionFromUser(u *User) Session {
	return Session{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
