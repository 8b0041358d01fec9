// Package models defines the persistence-level entities shared by the
// repositories and services.
package models

import "time"

// User is an account record. Password holds the bcrypt hash, never the
// plaintext; it must not appear in API responses or logs.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
