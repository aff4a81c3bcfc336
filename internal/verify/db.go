package verify

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

// DB is the narrow slice of *sql.DB the verifier needs: enough to run
// DDL in a transaction and to type-switch on the underlying driver to
// pick dialect-specific SQL. Grounded on the teacher's dbintf.go, with
// Driver() added since dbops.go's dialect dispatch depends on it.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Driver() driver.Driver
	Close() error
}

var _ DB = &sql.DB{}
