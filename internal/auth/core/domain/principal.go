package domain

import "time"

// Principal is an authenticated account capable of owning sites.
type Principal struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
