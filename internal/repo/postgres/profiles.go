package postgres

import (
	"context"
	"errors"

	"github.com/Hitesh2006-org/FINANCE/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfilesRepo struct {
	pool *pgxpool.Pool
}

func NewProfilesRepo(pool *pgxpool.Pool) *ProfilesRepo {
	return &ProfilesRepo{pool: pool}
}

func (r *ProfilesRepo) CreateTx(ctx context.Context, tx pgx.Tx, p user.Profile) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO user_profile (user_id, user_type, savings_goal, risk_tolerance)
		 VALUES ($1, $2, $3, $4)`,
		p.UserID, p.UserType, p.SavingsGoal, p.RiskTolerance,
	)

	return err
}

// Get returns the stored profile, or the defaults when the user has never
// saved settings.
func (r *ProfilesRepo) Get(ctx context.Context, userID int64) (user.Profile, error) {
	var p user.Profile

	err := r.pool.QueryRow(ctx,
		`SELECT user_id, COALESCE(user_type, 'general'), COALESCE(savings_goal, 0), COALESCE(risk_tolerance, 'moderate')
		 FROM user_profile
		 WHERE user_id = $1`,
		userID,
	).Scan(
		&p.UserID,
		&p.UserType,
		&p.SavingsGoal,
		&p.RiskTolerance,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.DefaultProfile(userID), nil
		}

		return user.Profile{}, err
	}

	return p, nil
}

// Save replaces the profile wholesale.
func (r *ProfilesRepo) Save(ctx context.Context, p user.Profile) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_profile (user_id, user_type, savings_goal, risk_tolerance)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET user_type = EXCLUDED.user_type,
		     savings_goal = EXCLUDED.savings_goal,
		     risk_tolerance = EXCLUDED.risk_tolerance`,
		p.UserID, p.UserType, p.SavingsGoal, p.RiskTolerance,
	)

	return err
}
