package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/common"
)

// Doer is the part of *gateway.Gateway the client needs.
type Doer interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

type RESTClient struct {
	gw Doer
}

var _ Client = (*RESTClient)(nil)

func NewRESTClient(gw Doer) *RESTClient {
	return &RESTClient{gw: gw}
}

func (c *RESTClient) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.gw.Do(ctx, http.MethodPost, "/auth/login", creds, &res); err != nil {
		return nil, mapAuthError(err)
	}
	if res.Token == "" {
		return nil, fmt.Errorf("login: %w: empty token", ErrValidation)
	}
	return &res, nil
}

func (c *RESTClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.gw.Do(ctx, http.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, mapAuthError(err)
	}
	if res.Token == "" {
		return nil, fmt.Errorf("register: %w: empty token", ErrValidation)
	}
	return &res, nil
}

func (c *RESTClient) GetProfile(ctx context.Context) (*models.Identity, error) {
	var id models.Identity
	if err := c.gw.Do(ctx, http.MethodGet, "/auth/profile", nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *RESTClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Identity, error) {
	var id models.Identity
	if err := c.gw.Do(ctx, http.MethodPut, "/auth/profile", upd, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *RESTClient) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	var list []models.Tenant
	if err := c.gw.Do(ctx, http.MethodGet, "/tenants", nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Tenant{}
	}
	return list, nil
}

func (c *RESTClient) GetTenant(ctx context.Context, id string) (*models.Tenant, error) {
	var t models.Tenant
	if err := c.gw.Do(ctx, http.MethodGet, tenantPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *RESTClient) CreateTenant(ctx context.Context, in models.TenantInput) (*models.Tenant, error) {
	var t models.Tenant
	if err := c.gw.Do(ctx, http.MethodPost, "/tenants", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *RESTClient) UpdateTenant(ctx context.Context, id string, patch models.TenantPatch) (*models.Tenant, error) {
	var t models.Tenant
	if err := c.gw.Do(ctx, http.MethodPut, tenantPath(id), patch, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *RESTClient) DeleteTenant(ctx context.Context, id string) error {
	return c.gw.Do(ctx, http.MethodDelete, tenantPath(id), nil, nil)
}

func (c *RESTClient) Ping(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.gw.Do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return err
	}
	if status.Status != "ok" {
		return ErrUnavailable
	}
	return nil
}

func tenantPath(id string) string {
	return "/tenants/" + url.PathEscape(id)
}

// mapAuthError marks credential rejections so callers can tell them apart
// from outages. The server message stays reachable through the chain.
func mapAuthError(err error) error {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) {
		return fmt.Errorf("%w: %w", common.ErrInvalidCredentials, err)
	}
	return err
}
