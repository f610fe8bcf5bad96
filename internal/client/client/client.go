package client

import (
	"context"

	"github.com/dmitrijs2005/salonadmin/internal/client/models"
)

type AuthClient interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	GetProfile(ctx context.Context) (*models.Identity, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Identity, error)
}

type TenantClient interface {
	ListTenants(ctx context.Context) ([]models.Tenant, error)
	GetTenant(ctx context.Context, id string) (*models.Tenant, error)
	CreateTenant(ctx context.Context, in models.TenantInput) (*models.Tenant, error)
	UpdateTenant(ctx context.Context, id string, patch models.TenantPatch) (*models.Tenant, error)
	DeleteTenant(ctx context.Context, id string) error
}

type Client interface {
	AuthClient
	TenantClient
	Ping(ctx context.Context) error
}
