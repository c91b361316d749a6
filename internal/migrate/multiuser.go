package migrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/identity"
	"github.com/Hitesh2006-org/FINANCE/internal/schema"
	"github.com/jackc/pgx/v5"
)

// upgradeToMultiUser walks the tables in a fixed dependency order and brings
// each to the generation-2 shape. Order is load-bearing: users must hold a
// stable id space before any table that needs a default-owner backfill.
//
// Per table, one of four things happens: absent tables are created outright,
// current tables are left untouched, recognized legacy tables are rebuilt
// through a shadow table inside a single transaction, and anything else is a
// SchemaError that aborts startup.
func (e *Engine) upgradeToMultiUser(ctx context.Context) error {
	tables := []struct {
		name string
		fn   func(context.Context) (string, error)
	}{
		{"users", e.migrateUsers},
		{"user_profile", e.migrateUserProfile},
		{"transactions", e.migrateTransactions},
		{"holdings", e.migrateHoldings},
		{"savings_goals", e.migrateSavingsGoals},
		{"config", e.migrateConfig},
	}

	for _, t := range tables {
		start := time.Now()

		outcome, err := t.fn(ctx)

		if err != nil {
			e.observe(t.name, "failed", start)
			return err
		}

		e.observe(t.name, outcome, start)
		e.log.Info("table ready", "table", t.name, "outcome", outcome)
	}

	return nil
}

func (e *Engine) migrateUsers(ctx context.Context) (string, error) {
	cols, exists, err := schema.Describe(ctx, e.pool, "users")

	if err != nil {
		return "", err
	}

	if !exists {
		if _, err := e.pool.Exec(ctx, createUsersSQL); err != nil {
			return "", err
		}

		return "created", nil
	}

	if cols.Has("id", "password_hash") {
		return "noop", nil
	}

	if !cols.Has("username", "password") {
		return "", &SchemaError{Table: "users", Reason: "unrecognized column set"}
	}

	// The earliest layouts have no email column at all; those rows carry a
	// NULL email forward.
	selectLegacy := `SELECT username::text, password::text, NULL::text FROM users`

	if cols.Has("email") {
		selectLegacy = `SELECT username::text, password::text, email::text FROM users`
	}

	// Legacy single-user layout: plaintext credential, no id column. The
	// digest is computed in Go, so rows are read out before the copy.
	err = e.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createUsersShadowSQL); err != nil {
			return err
		}

		type legacyUser struct {
			username string
			password *string
			email    *string
		}

		rows, err := tx.Query(ctx, selectLegacy)

		if err != nil {
			return err
		}

		var olds []legacyUser

		for rows.Next() {
			var u legacyUser

			if err := rows.Scan(&u.username, &u.password, &u.email); err != nil {
				rows.Close()
				return err
			}

			olds = append(olds, u)
		}

		rows.Close()

		if err := rows.Err(); err != nil {
			return err
		}

		now := time.Now().UTC()

		for _, u := range olds {
			var digest *string

			if u.password != nil && *u.password != "" {
				d := identity.HashPassword(*u.password)
				digest = &d
			}

			_, err := tx.Exec(ctx,
				`INSERT INTO users_new (username, password_hash, email, created_at) VALUES ($1, $2, $3, $4)`,
				u.username, digest, u.email, now,
			)

			if err != nil {
				return err
			}
		}

		return replaceTable(ctx, tx, "users")
	})

	if err != nil {
		return "", err
	}

	return "migrated", nil
}

func (e *Engine) migrateUserProfile(ctx context.Context) (string, error) {
	cols, exists, err := schema.Describe(ctx, e.pool, "user_profile")

	if err != nil {
		return "", err
	}

	if !exists {
		if _, err := e.pool.Exec(ctx, createUserProfileSQL); err != nil {
			return "", err
		}

		return "created", nil
	}

	if cols.Has("user_id") {
		return "noop", nil
	}

	if !cols.Has("user_type", "savings_goal", "risk_tolerance") {
		return "", &SchemaError{Table: "user_profile", Reason: "unrecognized column set"}
	}

	// user_profile is one-to-one with users, so the all-rows-to-one-owner
	// backfill cannot apply. Legacy rows are paired positionally with users
	// ordered by id; rows past the last user are dropped.
	err = e.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, createUserProfileShadowSQL); err != nil {
			return err
		}

		type legacyProfile struct {
			userType      *string
			savingsGoal   *float64
			riskTolerance *string
		}

		rows, err := tx.Query(ctx, `SELECT user_type::text, savings_goal::double precision, risk_tolerance::text FROM user_profile`)

		if err != nil {
			return err
		}

		var olds []legacyProfile

		for rows.Next() {
			var p legacyProfile

			if err := rows.Scan(&p.userType, &p.savingsGoal, &p.riskTolerance); err != nil {
				rows.Close()
				return err
			}

			olds = append(olds, p)
		}

		rows.Close()

		if err := rows.Err(); err != nil {
			return err
		}

		userIDs, err := allUserIDs(ctx, tx)

		if err != nil {
			return err
		}

		for i, p := range olds {
			if i >= len(userIDs) {
				e.log.Warn("dropping legacy profile rows without a matching user",
					"table", "user_profile", "rows", len(olds)-i)
				break
			}

			userType := "general"
			savingsGoal := 0.0
			riskTolerance := "moderate"

			if p.userType != nil {
				userType = *p.userType
			}
			if p.savingsGoal != nil {
				savingsGoal = *p.savingsGoal
			}
			if p.riskTolerance != nil {
				riskTolerance = *p.riskTolerance
			}

			_, err := tx.Exec(ctx,
				`INSERT INTO user_profile_new (user_id, user_type, savings_goal, risk_tolerance) VALUES ($1, $2, $3, $4)`,
				userIDs[i], userType, savingsGoal, riskTolerance,
			)

			if err != nil {
				return err
			}
		}

		return replaceTable(ctx, tx, "user_profile")
	})

	if err != nil {
		return "", err
	}

	return "migrated", nil
}

func (e *Engine) migrateTransactions(ctx context.Context) (string, error) {
	return e.migrateOwned(ctx, ownedTable{
		name:      "transactions",
		createSQL: createTransactionsSQL,
		shadowSQL: createTransactionsShadowSQL,
		copySQL:   copyLegacyTransactionsSQL,
		legacy:    []string{"id", "tdate", "ttype", "category", "amount", "note"},
	})
}

func (e *Engine) migrateHoldings(ctx context.Context) (string, error) {
	return e.migrateOwned(ctx, ownedTable{
		name:      "holdings",
		createSQL: createHoldingsSQL,
		shadowSQL: createHoldingsShadowSQL,
		copySQL:   copyLegacyHoldingsSQL,
		legacy:    []string{"id", "symbol", "shares", "avg_price", "added_at"},
	})
}

func (e *Engine) migrateSavingsGoals(ctx context.Context) (string, error) {
	return e.migrateOwned(ctx, ownedTable{
		name:      "savings_goals",
		createSQL: createSavingsGoalsSQL,
		shadowSQL: createSavingsGoalsShadowSQL,
		copySQL:   copyLegacySavingsGoalsSQL,
		legacy:    []string{"id", "goal_name", "target_amount", "current_amount", "deadline", "note", "created_at"},
	})
}

func (e *Engine) migrateConfig(ctx context.Context) (string, error) {
	cols, exists, err := schema.Describe(ctx, e.pool, "config")

	if err != nil {
		return "", err
	}

	if !exists {
		if _, err := e.pool.Exec(ctx, createConfigSQL); err != nil {
			return "", err
		}

		return "created", nil
	}

	if cols.Has("key", "value") {
		return "noop", nil
	}

	return "", &SchemaError{Table: "config", Reason: "unrecognized column set"}
}

// ownedTable describes a many-per-user table whose legacy generation lacks
// the user_id column. legacy must list every column copySQL reads, so that a
// near-miss shape classifies as SchemaError instead of failing mid-copy.
type ownedTable struct {
	name      string
	createSQL string
	shadowSQL string
	copySQL   string
	legacy    []string
}

// migrateOwned applies the default-owner backfill policy: every legacy row
// is assigned to the first user by id. When no user exists the rows cannot
// be attributed and are dropped; that loss is logged, never silent.
func (e *Engine) migrateOwned(ctx context.Context, t ownedTable) (string, error) {
	cols, exists, err := schema.Describe(ctx, e.pool, t.name)

	if err != nil {
		return "", err
	}

	if !exists {
		if _, err := e.pool.Exec(ctx, t.createSQL); err != nil {
			return "", err
		}

		return "created", nil
	}

	if cols.Has("user_id") {
		return "noop", nil
	}

	if !cols.Has(t.legacy...) {
		return "", &SchemaError{Table: t.name, Reason: "unrecognized column set"}
	}

	err = e.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, t.shadowSQL); err != nil {
			return err
		}

		owner, ok, err := defaultUserID(ctx, tx)

		if err != nil {
			return err
		}

		if ok {
			tag, err := tx.Exec(ctx, t.copySQL, owner)

			if err != nil {
				return err
			}

			if tag.RowsAffected() > 0 {
				if err := resyncSequence(ctx, tx, t.name+"_new"); err != nil {
					return err
				}
			}
		} else {
			var dropped int64

			if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM `+t.name).Scan(&dropped); err != nil {
				return err
			}

			if dropped > 0 {
				e.log.Warn("no user available for ownership backfill; dropping rows",
					"table", t.name, "rows", dropped)
			}
		}

		return replaceTable(ctx, tx, t.name)
	})

	if err != nil {
		return "", err
	}

	return "migrated", nil
}

func (e *Engine) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := e.pool.Begin(ctx)

	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

// replaceTable swaps the shadow table over the original. Callers run it in
// the same transaction as the copy, so a crash leaves the table either fully
// old or fully new.
func replaceTable(ctx context.Context, tx pgx.Tx, table string) error {
	if _, err := tx.Exec(ctx, `DROP TABLE `+table); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}

	if _, err := tx.Exec(ctx, `ALTER TABLE `+table+`_new RENAME TO `+table); err != nil {
		return fmt.Errorf("rename %s_new: %w", table, err)
	}

	return nil
}

// resyncSequence moves the id sequence past the copied legacy ids.
func resyncSequence(ctx context.Context, tx pgx.Tx, table string) error {
	_, err := tx.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence($1, 'id'), (SELECT GREATEST(MAX(id), 1) FROM `+table+`))`,
		table,
	)

	return err
}

func defaultUserID(ctx context.Context, tx pgx.Tx) (int64, bool, error) {
	var id int64

	err := tx.QueryRow(ctx, `SELECT id FROM users ORDER BY id LIMIT 1`).Scan(&id)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}

		return 0, false, err
	}

	return id, true, nil
}

func allUserIDs(ctx context.Context, tx pgx.Tx) ([]int64, error) {
	rows, err := tx.Query(ctx, `SELECT id FROM users ORDER BY id`)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64

		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
