package postgres

import (
	"context"

	"github.com/Hitesh2006-org/FINANCE/internal/domain/goal"
	"github.com/Hitesh2006-org/FINANCE/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GoalsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewGoalsRepo(pool *pgxpool.Pool, prom *observability.Prom) *GoalsRepo {
	return &GoalsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *GoalsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *GoalsRepo) Create(ctx context.Context, userID int64, req goal.CreateGoalRequest) (goal.SavingsGoal, error) {
	g := goal.NewFromCreateRequest(userID, req)

	err := repo.observe("goals.create", func() error {
		return repo.pool.QueryRow(ctx,
			`INSERT INTO savings_goals (user_id, goal_name, target_amount, current_amount, deadline, note, created_at)
			 VALUES ($1, $2, $3, 0, $4, $5, $6)
			 RETURNING id`,
			g.UserID, g.Name, g.TargetAmount, g.Deadline, g.Note, g.CreatedAt,
		).Scan(&g.ID)
	})

	if err != nil {
		return goal.SavingsGoal{}, err
	}

	return g, nil
}

func (repo *GoalsRepo) ListForUser(ctx context.Context, userID int64) ([]goal.SavingsGoal, error) {
	output := make([]goal.SavingsGoal, 0)

	err := repo.observe("goals.list_for_user", func() error {
		rows, err := repo.pool.Query(ctx,
			`SELECT id, user_id, goal_name, target_amount, COALESCE(current_amount, 0), deadline, COALESCE(note, ''), COALESCE(created_at, now())
			 FROM savings_goals
			 WHERE user_id = $1
			 ORDER BY created_at DESC, id DESC`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var g goal.SavingsGoal

			if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Note, &g.CreatedAt); err != nil {
				return err
			}

			output = append(output, g)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// Update applies a partial update with fixed SQL: nil fields keep the stored
// value through COALESCE. Ownership mismatch matches zero rows and is not an
// error.
func (repo *GoalsRepo) Update(ctx context.Context, id, userID int64, req goal.UpdateGoalRequest) error {
	return repo.observe("goals.update", func() error {
		_, err := repo.pool.Exec(ctx,
			`UPDATE savings_goals
			 SET goal_name = COALESCE($3, goal_name),
			     target_amount = COALESCE($4, target_amount),
			     current_amount = COALESCE($5, current_amount),
			     deadline = COALESCE($6, deadline),
			     note = COALESCE($7, note)
			 WHERE id = $1 AND user_id = $2`,
			id, userID, req.Name, req.TargetAmount, req.CurrentAmount, req.Deadline, req.Note,
		)

		return err
	})
}

func (repo *GoalsRepo) Delete(ctx context.Context, id, userID int64) error {
	return repo.observe("goals.delete", func() error {
		_, err := repo.pool.Exec(ctx,
			`DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`,
			id, userID,
		)

		return err
	})
}
