// Package services contains the backend's business rules. Handlers call
// services with an authenticated principal; services talk to repositories
// obtained from the repomanager, inside a transaction where a rule spans
// several statements.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/dmitrijs2005/salonadmin/internal/common"
	"github.com/dmitrijs2005/salonadmin/internal/dbx"
	"github.com/dmitrijs2005/salonadmin/internal/server/auth"
	"github.com/dmitrijs2005/salonadmin/internal/server/config"
	"github.com/dmitrijs2005/salonadmin/internal/server/models"
	"github.com/dmitrijs2005/salonadmin/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// dummyHash is compared against when the email is unknown, so a failed
// login costs the same whether or not the account exists.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return h
})

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	tokenTTL    time.Duration
	hashCost    int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.TokenTTL,
		hashCost:    bcrypt.DefaultCost,
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationError("invalid email address")
	}
	return strings.ToLower(email), nil
}

// Register creates an account and signs it in.
//
// Without a role the account becomes a tenant_admin of the given tenant, or
// a super_admin when no tenant is given. A super_admin can only be
// self-registered while the users table is empty.
func (s *UserService) Register(ctx context.Context, req wire.RegisterRequest) (*wire.AuthResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationError("password must be at least %d characters", minPasswordLength)
	}

	role := req.Role
	if role == "" {
		role = wire.RoleTenantAdmin
		if req.TenantID == nil {
			role = wire.RoleSuperAdmin
		}
	}
	var tenantID *string
	if role.TenantScoped() && req.TenantID != nil {
		tid := *req.TenantID
		tenantID = &tid
	}
	ident := wire.Identity{Role: role, TenantID: tenantID}
	if err := ident.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		TenantID:     tenantID,
		IsActive:     true,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if role == wire.RoleSuperAdmin {
			if err := s.repomanager.Users(tx).LockBootstrap(ctx); err != nil {
				return err
			}
			n, err := s.repomanager.Users(tx).Count(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: super_admin accounts are created by an administrator", common.ErrorForbidden)
			}
		} else if _, err := s.repomanager.Tenants(tx).Get(ctx, *tenantID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return validationError("unknown tenant")
			}
			return err
		}

		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return fmt.Errorf("%w: email is already registered", common.ErrorAlreadyExists)
			}
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.authResult(user)
}

// Login checks the password and returns a fresh access token.
func (s *UserService) Login(ctx context.Context, email, password string) (*wire.AuthResult, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrInactiveAccount
	}

	return s.authResult(user)
}

// Profile returns the identity behind an access token. A token whose user
// no longer exists is treated as unauthorized.
func (s *UserService) Profile(ctx context.Context, p auth.Principal) (*wire.Identity, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrInactiveAccount
	}
	ident := user.Identity()
	return &ident, nil
}

// UpdateProfile applies the non-nil fields of upd.
func (s *UserService) UpdateProfile(ctx context.Context, p auth.Principal, upd wire.ProfileUpdate) (*wire.Identity, error) {
	var result *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, p.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return err
		}

		if upd.Email != nil {
			email, err := normalizeEmail(*upd.Email)
			if err != nil {
				return err
			}
			user.Email = email
		}
		if upd.FirstName != nil {
			user.FirstName = strings.TrimSpace(*upd.FirstName)
		}
		if upd.LastName != nil {
			user.LastName = strings.TrimSpace(*upd.LastName)
		}

		result, err = repo.UpdateProfile(ctx, user)
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("%w: email is already registered", common.ErrorAlreadyExists)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	ident := result.Identity()
	return &ident, nil
}

func (s *UserService) authResult(user *models.User) (*wire.AuthResult, error) {
	p := auth.Principal{UserID: user.ID, Role: user.Role}
	if user.TenantID != nil {
		p.TenantID = *user.TenantID
	}
	token, err := auth.GenerateToken(p, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &wire.AuthResult{Token: token, User: user.Identity()}, nil
}
