// Package common contains shared constants and sentinel errors used across
// the console and the reference backend.
package common

// AuthorizationHeader carries the bearer credential on outbound requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the access token in AuthorizationHeader.
const BearerPrefix = "Bearer "

// Durable storage keys. Absence of either key is a valid state
// (logged out / no prior tenant selection).
const (
	StorageKeyAccessToken     = "access_token"
	StorageKeyCurrentTenantID = "current_tenant_id"
)
