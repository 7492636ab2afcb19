package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fundhub/internal/domain"
)

const uniqueViolation = "23505"

// UserRepositoryPG implements UserRepository using PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repo.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// Create inserts a new user record.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, name, email, password_hash, wallet_address, role, kyc_status)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`, user.ID, user.Name, user.Email, user.PasswordHash, user.WalletAddress, user.Role, user.KYCStatus)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrDuplicateEmail
	}
	return err
}

// GetByID fetches a user by primary key.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByEmail fetches a user by email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *UserRepositoryPG) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, email, password_hash, wallet_address, role,
       kyc_id_type, kyc_id_image, kyc_selfie, kyc_status,
       created_at, updated_at
FROM users
`+where+`;`, arg)

	var user domain.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.WalletAddress, &user.Role,
		&user.KYCIDType, &user.KYCIDImage, &user.KYCSelfie, &user.KYCStatus,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateKYC records a submitted identity check and resets its status to pending.
func (r *UserRepositoryPG) UpdateKYC(ctx context.Context, userID, idType, idImage, selfie string) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET kyc_id_type = $2, kyc_id_image = $3, kyc_selfie = $4, kyc_status = $5, updated_at = now()
WHERE id = $1;
`, userID, idType, idImage, selfie, domain.KYCStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetRole changes a user's role.
func (r *UserRepositoryPG) SetRole(ctx context.Context, userID string, role domain.UserRole) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE users SET role = $2, updated_at = now() WHERE id = $1;
`, userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
