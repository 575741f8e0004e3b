package models

import "time"

// Account is one row of the accounts relation. PasswordHash holds the
// bcrypt digest, never the plaintext. Token is the current session token
// (empty when none), overwritten on every login. PhoneNumber and TextTime
// are only meaningful when ActiveSub is set; SetSubscription writes the
// three together.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	Token        string
	PhoneNumber  string
	TextTime     string
	ActiveSub    bool
}
