package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

func (r *UsersRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// CreateTx inserts a user inside the caller's transaction so registration
// can attach the default profile atomically.
func (r *UsersRepo) CreateTx(ctx context.Context, tx pgx.Tx, username, passwordHash string, email *string) (user.User, error) {
	u := user.User{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		CreatedAt:    time.Now().UTC(),
	}

	err := tx.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, email, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		u.Username, u.PasswordHash, u.Email, u.CreatedAt,
	).Scan(&u.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, ErrDuplicateIdentity
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(ctx,
		`SELECT id, username, COALESCE(password_hash, ''), email, COALESCE(created_at, now())
		 FROM users
		 WHERE username = $1`,
		username,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(ctx,
		`SELECT id, username, COALESCE(password_hash, ''), email, COALESCE(created_at, now())
		 FROM users
		 WHERE id = $1`,
		id,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&u.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}
