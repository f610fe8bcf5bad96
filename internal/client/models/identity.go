// Package models defines the wire types shared by the console's stores and
// its REST client: identities, tenants and the request payloads that create
// or change them.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the authorization role of an Identity.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleTenantAdmin  Role = "tenant_admin"
	RoleManager      Role = "manager"
	RoleStylist      Role = "stylist"
	RoleReceptionist Role = "receptionist"
)

var (
	ErrUnknownRole    = errors.New("unknown role")
	ErrTenantRequired = errors.New("tenant-scoped role requires a tenant")
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTenantAdmin, RoleManager, RoleStylist, RoleReceptionist:
		return true
	}
	return false
}

// TenantScoped reports whether an identity with this role must belong to a tenant.
func (r Role) TenantScoped() bool {
	return r.Valid() && r != RoleSuperAdmin
}

// Identity is the authenticated actor returned by the auth endpoints.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      Role      `json:"role"`
	TenantID  *string   `json:"tenantId,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name, skipping empty parts.
func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// Validate checks the role invariants.
func (i Identity) Validate() error {
	if !i.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, i.Role)
	}
	if i.Role.TenantScoped() && (i.TenantID == nil || *i.TenantID == "") {
		return ErrTenantRequired
	}
	return nil
}

// Clone returns a deep copy, so callers can't mutate store-owned state.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.TenantID != nil {
		tid := *i.TenantID
		c.TenantID = &tid
	}
	return &c
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      Role    `json:"role,omitempty"`
	TenantID  *string `json:"tenantId,omitempty"`
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// ProfileUpdate is the partial body of PUT /auth/profile. Nil fields are left unchanged.
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}
