package postgres

import (
	"context"

	"github.com/Hitesh2006-org/FINANCE/internal/domain/transaction"
	"github.com/Hitesh2006-org/FINANCE/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTransactionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *TransactionsRepo {
	return &TransactionsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *TransactionsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *TransactionsRepo) Create(ctx context.Context, userID int64, req transaction.CreateTransactionRequest) (transaction.Transaction, error) {
	t := transaction.NewFromCreateRequest(userID, req)

	err := repo.observe("transactions.create", func() error {
		return repo.pool.QueryRow(ctx,
			`INSERT INTO transactions (user_id, tdate, ttype, category, amount, note)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			t.UserID, t.Date, t.Type, t.Category, t.Amount, t.Note,
		).Scan(&t.ID)
	})

	if err != nil {
		return transaction.Transaction{}, err
	}

	return t, nil
}

func (repo *TransactionsRepo) ListForUser(ctx context.Context, userID int64) ([]transaction.Transaction, error) {
	output := make([]transaction.Transaction, 0)

	err := repo.observe("transactions.list_for_user", func() error {
		rows, err := repo.pool.Query(ctx,
			`SELECT id, user_id, tdate, COALESCE(ttype, ''), COALESCE(category, ''), amount, COALESCE(note, '')
			 FROM transactions
			 WHERE user_id = $1
			 ORDER BY tdate DESC, id DESC`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var t transaction.Transaction

			if err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.Type, &t.Category, &t.Amount, &t.Note); err != nil {
				return err
			}

			output = append(output, t)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (repo *TransactionsRepo) Delete(ctx context.Context, id, userID int64) error {
	return repo.observe("transactions.delete", func() error {
		_, err := repo.pool.Exec(ctx,
			`DELETE FROM transactions WHERE id = $1 AND user_id = $2`,
			id, userID,
		)

		return err
	})
}
