package httpapi

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dmitrijs2005/salonadmin/internal/client/client"
	"github.com/dmitrijs2005/salonadmin/internal/client/gateway"
	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenHolder struct {
	mu    sync.Mutex
	token string
}

func (h *tokenHolder) Token() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.token
}

func (h *tokenHolder) set(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

// The console's own REST client must understand every response the router
// produces.
func TestContract_ConsoleClientAgainstRouter(t *testing.T) {
	api := newTestAPI(t, 0)
	srv := httptest.NewServer(api.handler)
	t.Cleanup(srv.Close)

	holder := &tokenHolder{}
	var expired []string
	var mu sync.Mutex

	gw, err := gateway.New(srv.URL+"/api", gateway.WithInterceptors(
		gateway.BearerToken(holder),
		gateway.SessionExpiry(func(_ context.Context, presented string) {
			mu.Lock()
			defer mu.Unlock()
			expired = append(expired, presented)
		}),
	))
	require.NoError(t, err)
	c := client.NewRESTClient(gw)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, err = c.Login(ctx, wire.Credentials{Email: "root@salon.test", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, "invalid credentials", gateway.Message(err))

	res, err := c.Login(ctx, wire.Credentials{Email: "root@salon.test", Password: "rootpass"})
	require.NoError(t, err)
	holder.set(res.Token)

	me, err := c.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, wire.RoleSuperAdmin, me.Role)

	list, err := c.ListTenants(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	created, err := c.CreateTenant(ctx, wire.TenantInput{Name: "Gamma", Plan: wire.PlanFree})
	require.NoError(t, err)

	got, err := c.GetTenant(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gamma", got.Name)

	require.NoError(t, c.DeleteTenant(ctx, created.ID))
	_, err = c.GetTenant(ctx, created.ID)
	assert.ErrorIs(t, err, gateway.ErrNotFound)

	_, err = c.CreateTenant(ctx, wire.TenantInput{})
	assert.ErrorIs(t, err, gateway.ErrValidation)

	mu.Lock()
	assert.Empty(t, expired, "no 401 has been answered to an authenticated call yet")
	mu.Unlock()

	holder.set("forged")
	_, err = c.GetProfile(ctx)
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)

	mu.Lock()
	assert.Equal(t, []string{"forged"}, expired)
	mu.Unlock()
}
