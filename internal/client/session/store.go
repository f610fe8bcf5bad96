// Package session holds who is signed in to the console.
//
// Store owns the access token and the identity it belongs to. The two are
// always set and cleared together, and every change to the token is mirrored
// to durable storage inside the same critical section so memory and disk
// never disagree. The store also serves as the gateway's TokenSource and as
// its session-expiry hook.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/salonadmin/internal/client/client"
	"github.com/dmitrijs2005/salonadmin/internal/client/gateway"
	"github.com/dmitrijs2005/salonadmin/internal/client/guard"
	"github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/dmitrijs2005/salonadmin/internal/logging"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Navigator moves the console to another view.
type Navigator interface {
	Navigate(ctx context.Context, route guard.Route)
}

// State is a point-in-time copy of the session.
type State struct {
	Token    string
	Identity *models.Identity
	Loading  bool
}

func (s State) IsAuthenticated() bool { return s.Token != "" }

type Store struct {
	auth   client.AuthClient
	repo   metadata.Repository
	nav    Navigator
	logger logging.Logger

	mu       sync.RWMutex
	token    string
	identity *models.Identity
	loading  bool

	restoreOnce sync.Once
	restoreErr  error
	pending     atomic.Int32
}

func NewStore(auth client.AuthClient, repo metadata.Repository, nav Navigator, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		auth:    auth,
		repo:    repo,
		nav:     nav,
		logger:  logger.With("module", "session"),
		loading: true,
	}
}

// Restore validates a previously stored token by fetching the profile with
// it. It runs once; later calls return the first result. Whatever happens,
// Loading is false afterwards.
func (s *Store) Restore(ctx context.Context) error {
	s.restoreOnce.Do(func() {
		s.restoreErr = s.restore(ctx)
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	})
	return s.restoreErr
}

func (s *Store) restore(ctx context.Context) error {
	raw, err := s.repo.Get(ctx, common.StorageKeyAccessToken)
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}
	token := string(raw)

	s.pending.Add(1)
	defer s.pending.Add(-1)

	id, err := s.auth.GetProfile(gateway.WithToken(ctx, token))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		// a login finished while the profile was loading
		return nil
	}
	if err != nil {
		s.logger.Info(ctx, "stored session rejected", "error", err)
		if derr := s.repo.Delete(ctx, common.StorageKeyAccessToken); derr != nil {
			s.logger.Error(ctx, "failed to drop stored token", "error", derr)
		}
		return fmt.Errorf("restore session: %w", err)
	}

	s.token = token
	s.identity = id.Clone()
	s.logger.Info(ctx, "session restored", "user", id.Email)
	return nil
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	s.pending.Add(1)
	defer s.pending.Add(-1)

	res, err := s.auth.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := s.establish(ctx, res); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.logger.Info(ctx, "logged in", "user", res.User.Email, "role", res.User.Role)
	return nil
}

func (s *Store) Register(ctx context.Context, req models.RegisterRequest) error {
	s.pending.Add(1)
	defer s.pending.Add(-1)

	res, err := s.auth.Register(ctx, req)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if err := s.establish(ctx, res); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.logger.Info(ctx, "registered", "user", res.User.Email)
	return nil
}

// establish persists the token and then publishes token and identity.
func (s *Store) establish(ctx context.Context, res *models.AuthResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Set(ctx, common.StorageKeyAccessToken, []byte(res.Token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.token = res.Token
	s.identity = res.User.Clone()
	return nil
}

// Logout ends the session. Calling it while logged out is harmless.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// the session stays up until the stored token is gone, so a restart
	// never revives a session that was reported as ended
	if err := s.repo.Delete(ctx, common.StorageKeyAccessToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.token = ""
	s.identity = nil
	s.logger.Info(ctx, "logged out")
	return nil
}

// UpdateProfile replaces the identity with the server's answer. The answer is
// dropped when the session changed while the call was in flight.
func (s *Store) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	token := s.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	s.pending.Add(1)
	defer s.pending.Add(-1)

	id, err := s.auth.UpdateProfile(ctx, upd)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return ErrNotAuthenticated
	}
	s.identity = id.Clone()
	return nil
}

// Expire is the gateway's reaction to a 401 for the presented token. It wipes
// the session from memory and storage and sends the console to the login
// view once per live session. A 401 for a token that is no longer current is
// ignored; with no live session only the stored token is dropped.
func (s *Store) Expire(ctx context.Context, presented string) {
	s.mu.Lock()
	if s.token != "" && s.token != presented {
		s.mu.Unlock()
		s.logger.Debug(ctx, "ignoring 401 for a previous session")
		return
	}

	live := s.token != ""
	s.token = ""
	s.identity = nil
	keys := []string{common.StorageKeyAccessToken}
	if live {
		// the remembered tenant belongs to the expired session; after a
		// logout it is kept for the next login
		keys = append(keys, common.StorageKeyCurrentTenantID)
	}
	err := s.repo.Delete(ctx, keys...)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(ctx, "failed to clear stored session", "error", err)
	}
	if live {
		s.logger.Info(ctx, "session expired")
		if s.nav != nil {
			s.nav.Navigate(ctx, guard.RouteLogin)
		}
	}
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{Token: s.token, Identity: s.identity.Clone(), Loading: s.loading}
}

// Pending reports how many login/register/profile calls are in flight.
func (s *Store) Pending() int {
	return int(s.pending.Load())
}

var (
	_ gateway.TokenSource = (*Store)(nil)
	_ guard.SessionView   = (*Store)(nil)
)
