package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/dmitrijs2005/salonadmin/internal/server/auth"
	"github.com/dmitrijs2005/salonadmin/internal/server/config"
	"github.com/dmitrijs2005/salonadmin/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "k"

func newUserService(t *testing.T) (*UserService, *fakeStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	store := newFakeStore()
	s := NewUserService(db, fakeManager{store}, &config.Config{SecretKey: testSecret, TokenTTL: time.Hour})
	s.hashCost = bcrypt.MinCost
	return s, store, mock
}

func seedUser(t *testing.T, store *fakeStore, email, password string, role wire.Role, tenantID *string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		ID: "u-" + email, Email: email, PasswordHash: hash, FirstName: "First", LastName: "Last",
		Role: role, TenantID: tenantID, IsActive: true,
	}
	store.users[u.ID] = u
	return u
}

func TestRegister_BootstrapSuperAdmin(t *testing.T) {
	s, store, mock := newUserService(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := s.Register(context.Background(), wire.RegisterRequest{
		Email: " Root@Salon.test ", Password: "correct-horse", FirstName: "Root",
	})
	require.NoError(t, err)

	assert.Equal(t, wire.RoleSuperAdmin, res.User.Role)
	assert.Equal(t, "root@salon.test", res.User.Email)
	assert.Nil(t, res.User.TenantID)
	assert.Len(t, store.users, 1)
	assert.Equal(t, 1, store.bootstrapLocks)

	p, err := auth.ParseToken(res.Token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, p.UserID)
	assert.True(t, p.IsSuperAdmin())
}

func TestRegister_SecondSuperAdminForbidden(t *testing.T) {
	s, store, mock := newUserService(t)
	seedUser(t, store, "root@salon.test", "password1", wire.RoleSuperAdmin, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Register(context.Background(), wire.RegisterRequest{Email: "eve@salon.test", Password: "password1"})
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.Len(t, store.users, 1)
	assert.Equal(t, 1, store.bootstrapLocks, "the emptiness check runs under the bootstrap lock")
}

func TestRegister_TenantAdminDefault(t *testing.T) {
	s, store, mock := newUserService(t)
	store.tenants["t-1"] = &models.Tenant{ID: "t-1", Name: "Alpha", Plan: wire.PlanFree}
	mock.ExpectBegin()
	mock.ExpectCommit()

	res, err := s.Register(context.Background(), wire.RegisterRequest{
		Email: "owner@alpha.test", Password: "password1", TenantID: strptr("t-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, wire.RoleTenantAdmin, res.User.Role)
	require.NotNil(t, res.User.TenantID)
	assert.Equal(t, "t-1", *res.User.TenantID)

	p, err := auth.ParseToken(res.Token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, "t-1", p.TenantID)
}

func TestRegister_UnknownTenant(t *testing.T) {
	s, _, mock := newUserService(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Register(context.Background(), wire.RegisterRequest{
		Email: "x@y.test", Password: "password1", Role: wire.RoleStylist, TenantID: strptr("nope"),
	})
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.ErrorContains(t, err, "unknown tenant")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, store, mock := newUserService(t)
	store.tenants["t-1"] = &models.Tenant{ID: "t-1"}
	seedUser(t, store, "dup@salon.test", "password1", wire.RoleManager, strptr("t-1"))
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Register(context.Background(), wire.RegisterRequest{
		Email: "dup@salon.test", Password: "password1", Role: wire.RoleManager, TenantID: strptr("t-1"),
	})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	cases := map[string]wire.RegisterRequest{
		"bad email":          {Email: "not-an-email", Password: "password1"},
		"display name email": {Email: "Ann <ann@x.test>", Password: "password1"},
		"short password":     {Email: "a@b.test", Password: "short"},
		"scoped role alone":  {Email: "a@b.test", Password: "password1", Role: wire.RoleReceptionist},
		"unknown role":       {Email: "a@b.test", Password: "password1", Role: "owner", TenantID: strptr("t")},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			s, store, _ := newUserService(t)
			_, err := s.Register(context.Background(), req)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Empty(t, store.users)
		})
	}
}

func TestLogin(t *testing.T) {
	s, store, _ := newUserService(t)
	seedUser(t, store, "ann@salon.test", "password1", wire.RoleManager, strptr("t-1"))

	res, err := s.Login(context.Background(), "ann@salon.test", "password1")
	require.NoError(t, err)
	assert.Equal(t, "u-ann@salon.test", res.User.ID)
	assert.NotEmpty(t, res.Token)

	p, err := auth.ParseToken(res.Token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, wire.RoleManager, p.Role)
	assert.Equal(t, "t-1", p.TenantID)
}

func TestLogin_Failures(t *testing.T) {
	s, store, _ := newUserService(t)
	seedUser(t, store, "ann@salon.test", "password1", wire.RoleManager, strptr("t-1"))
	off := seedUser(t, store, "off@salon.test", "password1", wire.RoleStylist, strptr("t-1"))
	off.IsActive = false

	_, err := s.Login(context.Background(), "ann@salon.test", "wrong-password")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "ghost@salon.test", "password1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "off@salon.test", "password1")
	assert.ErrorIs(t, err, common.ErrInactiveAccount)

	boom := errors.New("db down")
	store.err = boom
	_, err = s.Login(context.Background(), "ann@salon.test", "password1")
	assert.ErrorIs(t, err, boom)
}

func TestProfile(t *testing.T) {
	s, store, _ := newUserService(t)
	u := seedUser(t, store, "ann@salon.test", "password1", wire.RoleManager, strptr("t-1"))

	ident, err := s.Profile(context.Background(), auth.Principal{UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, "ann@salon.test", ident.Email)
	assert.Equal(t, "First Last", ident.FullName())

	_, err = s.Profile(context.Background(), auth.Principal{UserID: "deleted"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	s, store, mock := newUserService(t)
	u := seedUser(t, store, "ann@salon.test", "password1", wire.RoleManager, strptr("t-1"))
	mock.ExpectBegin()
	mock.ExpectCommit()

	ident, err := s.UpdateProfile(context.Background(), auth.Principal{UserID: u.ID}, wire.ProfileUpdate{
		LastName: strptr(" Moss "),
		Email:    strptr("Ann.Moss@salon.test"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Moss", ident.LastName)
	assert.Equal(t, "First", ident.FirstName)
	assert.Equal(t, "ann.moss@salon.test", ident.Email)
}

func TestUpdateProfile_Errors(t *testing.T) {
	t.Run("email taken", func(t *testing.T) {
		s, store, mock := newUserService(t)
		u := seedUser(t, store, "ann@salon.test", "password1", wire.RoleManager, strptr("t-1"))
		seedUser(t, store, "bob@salon.test", "password1", wire.RoleManager, strptr("t-1"))
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := s.UpdateProfile(context.Background(), auth.Principal{UserID: u.ID}, wire.ProfileUpdate{Email: strptr("bob@salon.test")})
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		s, store, mock := newUserService(t)
		u := seedUser(t, store, "ann@salon.test", "password1", wire.RoleManager, strptr("t-1"))
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := s.UpdateProfile(context.Background(), auth.Principal{UserID: u.ID}, wire.ProfileUpdate{Email: strptr("nope")})
		assert.ErrorIs(t, err, common.ErrorValidation)
		assert.Equal(t, "ann@salon.test", store.users[u.ID].Email)
	})

	t.Run("vanished user", func(t *testing.T) {
		s, _, mock := newUserService(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := s.UpdateProfile(context.Background(), auth.Principal{UserID: "gone"}, wire.ProfileUpdate{})
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})
}
