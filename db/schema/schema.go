// Package schema holds the PostgreSQL schema the repositories are written against.
package schema

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var SQL string

// Apply creates the tables, index and procedure if they are missing. The script holds
// several statements, so it is sent with the simple query protocol.
func Apply(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, SQL, pgx.QueryExecModeSimpleProtocol)
	return err
}
