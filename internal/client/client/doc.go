// Package client is the typed API of the salon backend used by the console.
//
// Client lists every operation the console performs. RESTClient implements it
// on top of a gateway.Gateway, so bearer injection, 401 handling, timeouts
// and envelope decoding all happen in one place.
//
// Errors keep the gateway's classification (match with errors.Is against
// ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrValidation). A rejected
// login or registration also wraps common.ErrInvalidCredentials. The
// server-supplied message is available through gateway.Message.
package client
