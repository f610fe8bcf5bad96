package tenants

import (
	"context"

	"github.com/dmitrijs2005/salonadmin/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Tenant, error)
	Get(ctx context.Context, id string) (*models.Tenant, error)
	Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error)
	Delete(ctx context.Context, id string) error
}
