package users

import (
	"context"

	"github.com/dmitrijs2005/salonadmin/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) (*models.User, error)
	Count(ctx context.Context) (int, error)
	// LockBootstrap serialises first-account registration until the
	// surrounding transaction ends. It must run inside a transaction.
	LockBootstrap(ctx context.Context) error
}
