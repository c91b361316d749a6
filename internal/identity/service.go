// Package identity owns credential hashing and the register/authenticate
// operations built on top of the user store.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hitesh2006-org/FINANCE/internal/domain/user"
	"github.com/Hitesh2006-org/FINANCE/internal/repo/postgres"
)

// ErrInvalidCredentials is returned for an unknown username and for a wrong
// password alike, so a caller cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	users    *postgres.UsersRepo
	profiles *postgres.ProfilesRepo
}

func NewService(users *postgres.UsersRepo, profiles *postgres.ProfilesRepo) *Service {
	return &Service{users: users, profiles: profiles}
}

// Register creates the user and its default profile as one atomic unit. If
// the profile insert fails the user row is rolled back with it.
func (s *Service) Register(ctx context.Context, username, password string, email *string) (user.User, error) {
	tx, err := s.users.BeginTx(ctx)

	if err != nil {
		return user.User{}, fmt.Errorf("begin registration: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }()

	u, err := s.users.CreateTx(ctx, tx, username, HashPassword(password), email)

	if err != nil {
		return user.User{}, err
	}

	err = s.profiles.CreateTx(ctx, tx, user.DefaultProfile(u.ID))

	if err != nil {
		return user.User{}, fmt.Errorf("create default profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return user.User{}, err
	}

	return u, nil
}

// Authenticate returns the user id iff the stored digest matches the one
// derived from password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (int64, error) {
	u, err := s.users.GetByUsername(ctx, username)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return 0, ErrInvalidCredentials
		}

		return 0, err
	}

	if u.PasswordHash == "" || u.PasswordHash != HashPassword(password) {
		return 0, ErrInvalidCredentials
	}

	return u.ID, nil
}
