// Package schema inspects the current on-disk shape of a table. The
// migration engine bases every decision on it, so results are never cached:
// each call reflects the live catalog.
package schema

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool / pgx.Tx the catalog needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Columns maps a column name to its declared data type.
type Columns map[string]string

func (c Columns) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := c[n]; !ok {
			return false
		}
	}
	return true
}

// Describe returns the column set of table in the current schema.
// exists is false when the table does not exist at all.
func Describe(ctx context.Context, q Querier, table string) (cols Columns, exists bool, err error) {
	rows, err := q.Query(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = $1
	`, table)

	if err != nil {
		return nil, false, err
	}

	defer rows.Close()

	cols = make(Columns)

	for rows.Next() {
		var name, dataType string

		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, false, err
		}

		cols[name] = dataType
	}

	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	if len(cols) == 0 {
		return nil, false, nil
	}

	return cols, true, nil
}
