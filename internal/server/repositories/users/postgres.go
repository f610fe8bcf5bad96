package users

import (
	"context"
	"strings"

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

// bootstrapLockKey identifies the advisory lock taken by LockBootstrap.
const bootstrapLockKey int64 = 0x5a10_ad01

const userColumns = `id, email, password_hash, first_name, last_name, role, tenant_id, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.TenantID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return u, nil
}

// Create inserts user. The caller assigns the id; timestamps come from the database.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, email, password_hash, first_name, last_name, role, tenant_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, strings.ToLower(user.Email), user.PasswordHash, user.FirstName, user.LastName,
		string(user.Role), user.TenantID, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	user.Email = strings.ToLower(user.Email)
	return user, nil
}

// GetByEmail looks the user up case-insensitively.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(email)))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// UpdateProfile stores the email and name fields of user.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`UPDATE users SET email = $2, first_name = $3, last_name = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	return scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, strings.ToLower(user.Email), user.FirstName, user.LastName))
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, pgerr.Wrap(err)
	}
	return n, nil
}

// LockBootstrap takes a transaction-scoped advisory lock, so concurrent
// first registrations run their emptiness check one at a time.
func (r *PostgresRepository) LockBootstrap(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, bootstrapLockKey); err != nil {
		return pgerr.Wrap(err)
	}
	return nil
}
