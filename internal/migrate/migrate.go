// Package migrate upgrades the durable schema to the current multi-user
// generation before the process serves anything else. Versions are recorded
// in a schema_version bookkeeping table and each step is keyed by a
// (from, to) pair; a database with no recorded version is treated as the
// legacy generation and classified table by table.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hitesh2006-org/FINANCE/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// VersionLegacy is the pre-multi-user layout: no schema_version rows,
	// plaintext credentials, no user scoping on owned tables.
	VersionLegacy = 1

	// VersionMultiUser adds stable user ids, hashed credentials and a
	// user_id column on every owned table.
	VersionMultiUser = 2

	// Current is the generation this build reads and writes.
	Current = VersionMultiUser
)

// SchemaError marks a table whose existing shape matches no known
// generation. It is fatal to startup: no CRUD may run against it.
type SchemaError struct {
	Table  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: table %q: %s", e.Table, e.Reason)
}

type Engine struct {
	pool *pgxpool.Pool
	log  *slog.Logger
	prom *observability.Prom
}

// New builds an engine. prom may be nil (the standalone migrate binary runs
// without a registry).
func New(pool *pgxpool.Pool, log *slog.Logger, prom *observability.Prom) *Engine {
	return &Engine{pool: pool, log: log, prom: prom}
}

type step struct {
	From int64
	To   int64
	Run  func(*Engine, context.Context) error
}

var steps = []step{
	{From: VersionLegacy, To: VersionMultiUser, Run: (*Engine).upgradeToMultiUser},
}

// Run applies every pending step in order. It is safe to re-invoke: applied
// steps are skipped via the version table, and a step interrupted mid-run
// re-classifies each table on the next attempt, treating finished tables as
// no-ops.
func (e *Engine) Run(ctx context.Context) error {
	_, err := e.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version BIGINT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL
		)
	`)

	if err != nil {
		return fmt.Errorf("ensure schema_version table: %w", err)
	}

	cur, err := e.recordedVersion(ctx)

	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for cur < Current {
		s, ok := stepFrom(cur)

		if !ok {
			return &SchemaError{Table: "schema_version", Reason: fmt.Sprintf("no migration path from version %d", cur)}
		}

		e.log.Info("applying schema migration", "from", s.From, "to", s.To)

		if err := s.Run(e, ctx); err != nil {
			return fmt.Errorf("migrate %d -> %d: %w", s.From, s.To, err)
		}

		_, err = e.pool.Exec(ctx,
			`INSERT INTO schema_version (version, applied_at) VALUES ($1, $2)`,
			s.To, time.Now().UTC(),
		)

		if err != nil {
			return fmt.Errorf("record schema version %d: %w", s.To, err)
		}

		cur = s.To
	}

	return nil
}

// recordedVersion returns the highest applied version, or VersionLegacy when
// nothing has been recorded yet. A fresh database also reports legacy; the
// first step's per-table classification turns it into plain creates.
func (e *Engine) recordedVersion(ctx context.Context) (int64, error) {
	var v int64

	err := e.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), $1) FROM schema_version`,
		VersionLegacy,
	).Scan(&v)

	if err != nil {
		return 0, err
	}

	return v, nil
}

func stepFrom(version int64) (step, bool) {
	for _, s := range steps {
		if s.From == version {
			return s, true
		}
	}

	return step{}, false
}

func (e *Engine) observe(table, outcome string, start time.Time) {
	if e.prom != nil {
		e.prom.ObserveMigration(table, outcome, time.Since(start))
	}
}
