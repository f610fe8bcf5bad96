// Package gateway is the console's single outbound request path to the
// backing REST service.
//
// Every call goes through Gateway.Do, which encodes the JSON body, bounds the
// call with a timeout, runs the interceptor chain and decodes the
// {success, data, error} envelope. Cross-cutting behaviour lives in
// interceptors rather than at call sites:
//
//   - BearerToken attaches "Authorization: Bearer <token>" from a TokenSource.
//   - SessionExpiry reports 401 responses to one registered ExpiryHook and
//     still hands the error back to the caller.
//   - RateLimit paces outbound requests.
//   - Logging records method, path, status and latency.
//
// Failures are returned as *APIError (HTTP status and server message) or wrap
// ErrUnavailable for transport problems and timeouts. Match them with
// errors.Is against the sentinels in errors.go.
package gateway
