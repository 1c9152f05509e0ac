package domain

import "time"

// Admin is the administrative identity: credentials plus an optional
// in-flight password-reset token.
type Admin struct {
	ID               int64
	Email            string
	PasswordHash     string
	ResetToken       *string
	ResetTokenExpiry *time.Time
	CreatedAt        time.Time
}
