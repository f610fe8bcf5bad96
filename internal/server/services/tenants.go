package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"

	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/dmitrijs2005/salonadmin/internal/dbx"
	"github.com/dmitrijs2005/salonadmin/internal/server/auth"
	"github.com/dmitrijs2005/salonadmin/internal/server/models"
	"github.com/dmitrijs2005/salonadmin/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// TenantService scopes tenant access by role: a super_admin sees and
// changes every tenant, anybody else sees only their own.
type TenantService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTenantService(db *sql.DB, m repomanager.RepositoryManager) *TenantService {
	return &TenantService{db: db, repomanager: m}
}

func requireSuperAdmin(p auth.Principal) error {
	if !p.IsSuperAdmin() {
		return common.ErrorForbidden
	}
	return nil
}

// List returns the tenants visible to p.
func (s *TenantService) List(ctx context.Context, p auth.Principal) ([]*models.Tenant, error) {
	repo := s.repomanager.Tenants(s.db)
	if p.IsSuperAdmin() {
		return repo.List(ctx)
	}

	if p.TenantID == "" {
		return []*models.Tenant{}, nil
	}
	t, err := repo.Get(ctx, p.TenantID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return []*models.Tenant{}, nil
		}
		return nil, err
	}
	return []*models.Tenant{t}, nil
}

// Get returns one tenant. Tenants outside p's scope are reported as missing.
func (s *TenantService) Get(ctx context.Context, p auth.Principal, id string) (*models.Tenant, error) {
	if !p.IsSuperAdmin() && id != p.TenantID {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Tenants(s.db).Get(ctx, id)
}

func normalizeSubdomain(sd *string) (*string, error) {
	if sd == nil {
		return nil, nil
	}
	v := strings.ToLower(strings.TrimSpace(*sd))
	if v == "" {
		return nil, nil
	}
	if !subdomainPattern.MatchString(v) {
		return nil, validationError("subdomain may contain only letters, digits and inner hyphens")
	}
	return &v, nil
}

func (s *TenantService) Create(ctx context.Context, p auth.Principal, in wire.TenantInput) (*models.Tenant, error) {
	if err := requireSuperAdmin(p); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	plan := in.Plan
	if plan == "" {
		plan = wire.PlanFree
	}
	if !plan.Valid() {
		return nil, validationError("unknown plan %q", plan)
	}
	subdomain, err := normalizeSubdomain(in.Subdomain)
	if err != nil {
		return nil, err
	}

	t, err := s.repomanager.Tenants(s.db).Create(ctx, &models.Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		Subdomain: subdomain,
		Plan:      plan,
		Settings:  maps.Clone(in.Settings),
		IsActive:  true,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, fmt.Errorf("%w: subdomain is taken", common.ErrorAlreadyExists)
	}
	return t, err
}

// Update merges patch into the stored tenant. Settings keys in the patch
// replace existing keys; other keys are kept.
func (s *TenantService) Update(ctx context.Context, p auth.Principal, id string, patch wire.TenantPatch) (*models.Tenant, error) {
	if err := requireSuperAdmin(p); err != nil {
		return nil, err
	}

	var updated *models.Tenant
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tenants(tx)

		t, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return validationError("name is required")
			}
			t.Name = name
		}
		if patch.Subdomain != nil {
			if t.Subdomain, err = normalizeSubdomain(patch.Subdomain); err != nil {
				return err
			}
		}
		if patch.Plan != nil {
			if !patch.Plan.Valid() {
				return validationError("unknown plan %q", *patch.Plan)
			}
			t.Plan = *patch.Plan
		}
		if patch.IsActive != nil {
			t.IsActive = *patch.IsActive
		}
		if len(patch.Settings) > 0 {
			if t.Settings == nil {
				t.Settings = make(map[string]any, len(patch.Settings))
			}
			maps.Copy(t.Settings, patch.Settings)
		}

		updated, err = repo.Update(ctx, t)
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("%w: subdomain is taken", common.ErrorAlreadyExists)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a tenant. Tenants that still have users cannot be deleted.
func (s *TenantService) Delete(ctx context.Context, p auth.Principal, id string) error {
	if err := requireSuperAdmin(p); err != nil {
		return err
	}
	err := s.repomanager.Tenants(s.db).Delete(ctx, id)
	if errors.Is(err, common.ErrorConflict) {
		return fmt.Errorf("%w: tenant still has users", common.ErrorConflict)
	}
	return err
}
