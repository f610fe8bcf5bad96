// Package models holds the backend's persistent records. Wire types shared
// with the console live in the client models package and are converted at
// the HTTP boundary.
package models

import (
	"time"

	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
)

// User is a row of the users table.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	FirstName    string
	LastName     string
	Role         wire.Role
	TenantID     *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the public view of u; the password hash never leaves the server.
func (u *User) Identity() wire.Identity {
	id := wire.Identity{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.TenantID != nil {
		tid := *u.TenantID
		id.TenantID = &tid
	}
	return id
}
