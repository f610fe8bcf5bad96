// Package tenants tracks the tenant list visible to the signed-in user and
// which tenant the console is currently working in.
package tenants

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/dmitrijs2005/salonadmin/internal/logging"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "tenants"

type Lister interface {
	ListTenants(ctx context.Context) ([]models.Tenant, error)
}

// SelectionPolicy picks the tenant to select when nothing is selected yet.
// It returns nil when none should be.
type SelectionPolicy func(list []models.Tenant) *models.Tenant

// FirstInList selects the first tenant the server returned.
func FirstInList(list []models.Tenant) *models.Tenant {
	if len(list) == 0 {
		return nil
	}
	return list[0].Clone()
}

var DefaultSelectionPolicy SelectionPolicy = FirstInList

type Option func(*Store)

func WithSelectionPolicy(p SelectionPolicy) Option {
	return func(s *Store) {
		if p != nil {
			s.policy = p
		}
	}
}

type Store struct {
	client Lister
	repo   metadata.Repository
	logger logging.Logger
	policy SelectionPolicy
	group  singleflight.Group

	mu       sync.RWMutex
	tenants  []models.Tenant
	current  *models.Tenant
	inflight int
}

func NewStore(client Lister, repo metadata.Repository, logger logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{
		client: client,
		repo:   repo,
		logger: logger.With("module", "tenants"),
		policy: DefaultSelectionPolicy,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Refresh reloads the tenant list. Concurrent callers share one request.
// A selection, once made, is never replaced by a refresh; when the selected
// tenant is still listed it picks up the fresh data.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}()

	ch := s.group.DoChan(refreshKey, func() (any, error) {
		// shared by every waiter, so one caller giving up must not fail the rest
		list, err := s.client.ListTenants(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.apply(list)
		return len(list), nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			s.logger.Warn(ctx, "tenant refresh failed", "error", res.Err)
			return fmt.Errorf("refresh tenants: %w", res.Err)
		}
		s.logger.Debug(ctx, "tenants refreshed", "count", res.Val, "shared", res.Shared)
		return nil
	}
}

func (s *Store) apply(list []models.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tenants = cloneList(list)
	switch {
	case s.current == nil:
		s.current = s.policy(s.tenants)
	default:
		if t := find(s.tenants, s.current.ID); t != nil {
			s.current = t
		}
	}
}

// SwitchTenant selects the listed tenant with the given id and remembers it.
// An id that is not in the list is ignored. The only error is a failure to
// remember the choice, in which case the selection is unchanged.
func (s *Store) SwitchTenant(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := find(s.tenants, id)
	if t == nil {
		s.logger.Debug(ctx, "switch to unknown tenant ignored", "tenant_id", id)
		return nil
	}
	if err := s.repo.Set(ctx, common.StorageKeyCurrentTenantID, []byte(id)); err != nil {
		return fmt.Errorf("remember tenant: %w", err)
	}
	s.current = t
	s.logger.Info(ctx, "tenant switched", "tenant_id", id, "name", t.Name)
	return nil
}

// RememberedID returns the id saved by the last SwitchTenant, or "".
func (s *Store) RememberedID(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.StorageKeyCurrentTenantID)
	if err != nil {
		return "", fmt.Errorf("read remembered tenant: %w", err)
	}
	return string(v), nil
}

// Reset forgets the list and the selection. Storage is left alone.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = nil
	s.current = nil
}

func (s *Store) Current() *models.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

func (s *Store) Tenants() []models.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneList(s.tenants)
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func find(list []models.Tenant, id string) *models.Tenant {
	for i := range list {
		if list[i].ID == id {
			return list[i].Clone()
		}
	}
	return nil
}

func cloneList(list []models.Tenant) []models.Tenant {
	if list == nil {
		return nil
	}
	out := make([]models.Tenant, len(list))
	for i := range list {
		out[i] = *list[i].Clone()
	}
	return out
}
