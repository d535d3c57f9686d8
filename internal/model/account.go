package model

import "time"

// AccountID uniquely identifies a registered account
type AccountID string

// Account is a backend identity managed by the auth service
type Account struct {
	ID           AccountID
	Username     string // login username (immutable)
	DisplayName  string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the public view of an authenticated account
type Identity struct {
	AccountID   AccountID
	Username    string
	DisplayName string
}
