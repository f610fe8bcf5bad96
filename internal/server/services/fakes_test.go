package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/dmitrijs2005/salonadmin/internal/dbx"
	"github.com/dmitrijs2005/salonadmin/internal/server/models"
	"github.com/dmitrijs2005/salonadmin/internal/server/repositories/tenants"
	"github.com/dmitrijs2005/salonadmin/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// fakeStore backs both fake repositories; the DBTX they are bound to is ignored.
type fakeStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	tenants map[string]*models.Tenant
	err     error

	bootstrapLocks int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*models.User{}, tenants: map[string]*models.Tenant{}}
}

type fakeManager struct{ s *fakeStore }

func (m fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m fakeManager) Users(dbx.DBTX) users.Repository              { return fakeUsers{m.s} }
func (m fakeManager) Tenants(dbx.DBTX) tenants.Repository          { return fakeTenants{m.s} }

type fakeUsers struct{ s *fakeStore }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, existing := range f.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	c := *u
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.s.users[c.ID] = &c
	out := c
	return &out, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, u := range f.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f fakeUsers) UpdateProfile(_ context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, existing := range f.s.users {
		if id != u.ID && existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	stored, ok := f.s.users[u.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	stored.Email, stored.FirstName, stored.LastName = u.Email, u.FirstName, u.LastName
	c := *stored
	return &c, nil
}

func (f fakeUsers) Count(context.Context) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return len(f.s.users), f.s.err
}

func (f fakeUsers) LockBootstrap(context.Context) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.bootstrapLocks++
	return f.s.err
}

type fakeTenants struct{ s *fakeStore }

func (f fakeTenants) List(context.Context) ([]*models.Tenant, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	out := make([]*models.Tenant, 0, len(f.s.tenants))
	for _, t := range f.s.tenants {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (f fakeTenants) Get(_ context.Context, id string) (*models.Tenant, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	t, ok := f.s.tenants[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t.Clone(), nil
}

func (f fakeTenants) Create(_ context.Context, t *models.Tenant) (*models.Tenant, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, existing := range f.s.tenants {
		if t.Subdomain != nil && existing.Subdomain != nil && *existing.Subdomain == *t.Subdomain {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.s.tenants[t.ID] = t.Clone()
	return t.Clone(), nil
}

func (f fakeTenants) Update(_ context.Context, t *models.Tenant) (*models.Tenant, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.tenants[t.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	f.s.tenants[t.ID] = t.Clone()
	return t.Clone(), nil
}

func (f fakeTenants) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.tenants[id]; !ok {
		return common.ErrorNotFound
	}
	for _, u := range f.s.users {
		if u.TenantID != nil && *u.TenantID == id {
			return common.ErrorConflict
		}
	}
	delete(f.s.tenants, id)
	return nil
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func strptr(s string) *string { return &s }
