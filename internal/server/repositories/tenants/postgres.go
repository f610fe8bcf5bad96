package tenants

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/dmitrijs2005/salonadmin/internal/dbx"
	"github.com/dmitrijs2005/salonadmin/internal/server/models"
	"github.com/dmitrijs2005/salonadmin/internal/server/repositories/pgerr"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const tenantColumns = `id, name, subdomain, plan, settings, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	t := &models.Tenant{}
	var settings []byte
	err := row.Scan(&t.ID, &t.Name, &t.Subdomain, &t.Plan, &settings, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &t.Settings); err != nil {
			return nil, fmt.Errorf("tenant %s settings: %w", t.ID, err)
		}
	}
	if t.Settings == nil {
		t.Settings = map[string]any{}
	}
	return t, nil
}

func encodeSettings(settings map[string]any) (string, error) {
	if settings == nil {
		return "{}", nil
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return string(b), nil
}

// List returns every tenant ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	defer rows.Close()

	result := make([]*models.Tenant, 0)
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return scanTenant(r.db.QueryRowContext(ctx, query, id))
}

// Create inserts tenant with a caller-assigned id.
func (r *PostgresRepository) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	settings, err := encodeSettings(tenant.Settings)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO tenants (id, name, subdomain, plan, settings, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + tenantColumns

	return scanTenant(r.db.QueryRowContext(ctx, query,
		tenant.ID, tenant.Name, tenant.Subdomain, string(tenant.Plan), settings, tenant.IsActive))
}

// Update overwrites the mutable columns of tenant.
func (r *PostgresRepository) Update(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	settings, err := encodeSettings(tenant.Settings)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE tenants SET name = $2, subdomain = $3, plan = $4, settings = $5, is_active = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + tenantColumns

	return scanTenant(r.db.QueryRowContext(ctx, query,
		tenant.ID, tenant.Name, tenant.Subdomain, string(tenant.Plan), settings, tenant.IsActive))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return pgerr.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pgerr.Wrap(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
