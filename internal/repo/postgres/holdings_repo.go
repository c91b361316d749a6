package postgres

import (
	"context"

	"github.com/Hitesh2006-org/FINANCE/internal/domain/holding"
	"github.com/Hitesh2006-org/FINANCE/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HoldingsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewHoldingsRepo(pool *pgxpool.Pool, prom *observability.Prom) *HoldingsRepo {
	return &HoldingsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *HoldingsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *HoldingsRepo) Create(ctx context.Context, userID int64, req holding.CreateHoldingRequest) (holding.Holding, error) {
	h := holding.NewFromCreateRequest(userID, req)

	err := repo.observe("holdings.create", func() error {
		return repo.pool.QueryRow(ctx,
			`INSERT INTO holdings (user_id, symbol, shares, avg_price, added_at)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			h.UserID, h.Symbol, h.Shares, h.AvgPrice, h.AddedAt,
		).Scan(&h.ID)
	})

	if err != nil {
		return holding.Holding{}, err
	}

	return h, nil
}

func (repo *HoldingsRepo) ListForUser(ctx context.Context, userID int64) ([]holding.Holding, error) {
	output := make([]holding.Holding, 0)

	err := repo.observe("holdings.list_for_user", func() error {
		rows, err := repo.pool.Query(ctx,
			`SELECT id, user_id, symbol, shares, avg_price, COALESCE(added_at, now())
			 FROM holdings
			 WHERE user_id = $1
			 ORDER BY id ASC`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var h holding.Holding

			if err := rows.Scan(&h.ID, &h.UserID, &h.Symbol, &h.Shares, &h.AvgPrice, &h.AddedAt); err != nil {
				return err
			}

			output = append(output, h)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// Delete is the authorization boundary: a row owned by someone else simply
// matches zero rows. No error, no existence leak.
func (repo *HoldingsRepo) Delete(ctx context.Context, id, userID int64) error {
	return repo.observe("holdings.delete", func() error {
		_, err := repo.pool.Exec(ctx,
			`DELETE FROM holdings WHERE id = $1 AND user_id = $2`,
			id, userID,
		)

		return err
	})
}
