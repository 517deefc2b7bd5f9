package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/portfolio/backend/internal/model"
)

// PgAdminUserRepository is the PostgreSQL AdminUserRepository.
type PgAdminUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgAdminUserRepository creates a PgAdminUserRepository.
func NewPgAdminUserRepository(pool *pgxpool.Pool) *PgAdminUserRepository {
	return &PgAdminUserRepository{pool: pool}
}

var _ AdminUserRepository = (*PgAdminUserRepository)(nil)

// Ping checks the connection (implements DB).
func (r *PgAdminUserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const adminUserSelectCols = `id, email, password_hash, created_at`

func scanAdminUser(scan func(...any) error) (*model.AdminUser, error) {
	var u model.AdminUser
	if err := scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByID returns the admin with the given ID.
func (r *PgAdminUserRepository) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+adminUserSelectCols+` FROM admin_users WHERE id = $1`, id)
	return scanAdminUser(row.Scan)
}

// FindByEmail returns the admin for email, ignoring case.
func (r *PgAdminUserRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+adminUserSelectCols+` FROM admin_users WHERE lower(email) = lower($1)`, email)
	return scanAdminUser(row.Scan)
}

// Create inserts u and fills in ID and CreatedAt.
func (r *PgAdminUserRepository) Create(ctx context.Context, u *model.AdminUser) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admin_users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
	return translate(err)
}
