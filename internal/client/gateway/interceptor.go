package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/dmitrijs2005/salonadmin/internal/logging"
	"golang.org/x/time/rate"
)

// Invoker sends a prepared request.
type Invoker func(req *http.Request) (*http.Response, error)

// Interceptor wraps an Invoker. It may change the request before calling
// next and inspect the response after it.
type Interceptor func(req *http.Request, next Invoker) (*http.Response, error)

// Chain composes interceptors around final. The first interceptor is the
// outermost one.
func Chain(final Invoker, interceptors ...Interceptor) Invoker {
	invoker := final
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, next := interceptors[i], invoker
		invoker = func(req *http.Request) (*http.Response, error) {
			return ic(req, next)
		}
	}
	return invoker
}

// TokenSource yields the current access token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// ExpiryHook is told which token the server rejected with 401.
type ExpiryHook func(ctx context.Context, presented string)

type tokenKey struct{}

// WithToken makes requests issued with ctx carry token instead of the one
// from the TokenSource. Used when validating a stored token that is not yet
// part of the session.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok
}

// BearerToken attaches the access token to every request that has one.
func BearerToken(src TokenSource) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		token, ok := tokenFromContext(req.Context())
		if !ok && src != nil {
			token = src.Token()
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
		return next(req)
	}
}

func presentedToken(req *http.Request) (string, bool) {
	h := req.Header.Get(common.AuthorizationHeader)
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimPrefix(h, common.BearerPrefix)
	return token, token != ""
}

// SessionExpiry calls hook when a request that presented a bearer token is
// answered with 401. The response is passed on untouched so the caller still
// gets the error. Anonymous requests never trigger the hook.
//
// Place it after BearerToken in the chain.
func SessionExpiry(hook ExpiryHook) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		resp, err := next(req)
		if err != nil || resp.StatusCode != http.StatusUnauthorized || hook == nil {
			return resp, err
		}
		if token, ok := presentedToken(req); ok {
			// the request deadline may be nearly spent; cleanup must still run
			hook(context.WithoutCancel(req.Context()), token)
		}
		return resp, nil
	}
}

// RateLimit blocks until limiter admits the request or its context ends.
func RateLimit(limiter *rate.Limiter) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		if err := limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
		return next(req)
	}
}

// Logging records each call at debug level and transport failures as warnings.
func Logging(logger logging.Logger) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		start := time.Now()
		resp, err := next(req)
		if err != nil {
			logger.Warn(req.Context(), "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
			return resp, err
		}
		logger.Debug(req.Context(), "request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"duration", time.Since(start),
		)
		return resp, nil
	}
}
