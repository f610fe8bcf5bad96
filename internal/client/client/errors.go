package client

import "github.com/dmitrijs2005/salonadmin/internal/client/gateway"

var (
	ErrUnavailable  = gateway.ErrUnavailable
	ErrUnauthorized = gateway.ErrUnauthorized
	ErrForbidden    = gateway.ErrForbidden
	ErrNotFound     = gateway.ErrNotFound
	ErrValidation   = gateway.ErrValidation
)
