package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/salonadmin/internal/common"
)

// Error codes carried in the envelope's error.code.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccountInactive    = "account_inactive"
	CodeUnauthorized       = "unauthorized"
	CodeTokenExpired       = "token_expired"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeConflict           = "conflict"
	CodeValidation         = "validation_error"
	CodeRateLimited        = "rate_limited"
	CodeMethodNotAllowed   = "method_not_allowed"
	CodeInternal           = "internal_error"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{common.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{common.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired},
	{common.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized},
	{common.ErrorUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
	{common.ErrInactiveAccount, http.StatusForbidden, CodeAccountInactive},
	{common.ErrorForbidden, http.StatusForbidden, CodeForbidden},
	{common.ErrorNotFound, http.StatusNotFound, CodeNotFound},
	{common.ErrorAlreadyExists, http.StatusConflict, CodeConflict},
	{common.ErrorConflict, http.StatusConflict, CodeConflict},
	{common.ErrorValidation, http.StatusBadRequest, CodeValidation},
}

// classify maps a service error to a status, a code and the message shown to
// the client. Unknown errors become a generic 500 so internals never leak.
func classify(err error) (int, string, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, err.Error()
		}
	}
	return http.StatusInternalServerError, CodeInternal, "internal error"
}
