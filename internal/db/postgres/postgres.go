// Package postgres implements the domain repositories on PostgreSQL
// with database/sql and lib/pq. Multi-table writes run in a single
// transaction.
package postgres

import (
	"database/sql"
	"log/slog"
)

// rollback rolls a transaction back unless it already committed.
// Deferred by every transactional method.
func rollback(tx *sql.Tx, op string) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		slog.Error("failed to rollback transaction",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Warn("failed to close rows", slog.String("error", err.Error()))
	}
}

// rowScanner lets scan helpers work over both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}
