package postgres

import (
	"context"
	"database/sql"
)

// DB is the statement surface the event repository writes through.
// Ingestion is append-only, so the repository never reads rows back
// and a single exec method is enough. Tests substitute a fake.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
