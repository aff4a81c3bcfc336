// Package verify implements the optional database smoke-test (C7): it
// deploys a normalized CREATE statement into a disposable, uniquely
// named schema, confirms the engine accepted it, and tears the schema
// back down. It never runs against a caller's real schema.
package verify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"

	"github.com/vegvisir-data/plsqlnorm/internal/lex"
)

// declRewriteRe locates where the object name begins in a declaration
// already filtered to NoComments|Uppercase form, so Deploy can insert
// a scratch schema qualifier in front of it. Mirrors the declaration
// grammar the lexer recognizes (§2) rather than a second, divergent
// regex dialect.
var declRewriteRe = regexp.MustCompile(`(?i)^CREATE\s+(?:OR\s+REPLACE\s+)?(?:PROCEDURE|FUNCTION|PACKAGE\s+BODY|PACKAGE|TRIGGER)\s+`)

// VerifyError reports a deployment failure against a scratch schema,
// keeping both the driver error and the position of the declaration
// that was being deployed so a caller can point back at source.
// Grounded on the teacher's MSSQLUserError.
type VerifyError struct {
	Pos     lex.Pos
	Schema  string
	Wrapped error
}

func (e VerifyError) Error() string {
	return fmt.Sprintf("%s:%d:%d: deploying to scratch schema %q: %s", e.Pos.File, e.Pos.Line, e.Pos.Col, e.Schema, e.Wrapped)
}

func (e VerifyError) Unwrap() error { return e.Wrapped }

// SchemaSuffix derives a short, collision-resistant schema suffix from
// the declaration text, so repeated verify runs of the same source
// share the same suffix; SchemaName adds a per-run fragment on top, so
// the full scratch schema name differs between runs. Grounded on the
// teacher's SchemaSuffixFromHash, but
// hashes the normalized declaration bytes directly rather than a
// parsed document, since this package never builds one.
func SchemaSuffix(declaration []byte) string {
	sum := sha256.Sum256(declaration)
	return hex.EncodeToString(sum[:6])
}

// SchemaName turns a suffix into the scratch schema's full name. A
// uuid fragment is folded in on top of the content hash so concurrent
// verify runs of the *same* declaration never collide mid-flight.
func SchemaName(suffix string) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("generating scratch schema id: %w", err)
	}
	return fmt.Sprintf("plsqlnorm_verify_%s_%s", suffix, id.String()[:8]), nil
}

// Deploy creates a scratch schema, runs declaration inside it, and
// drops the schema again regardless of outcome. declaration must
// already be a complete CREATE ... statement (typically Normalize's
// output with NoComments|Uppercase, as the verify command produces
// it); pos locates it in the caller's source for error reporting.
func Deploy(ctx context.Context, db DB, declaration []byte, pos lex.Pos) error {
	suffix := SchemaSuffix(declaration)
	schema, err := SchemaName(suffix)
	if err != nil {
		return err
	}

	dialect, err := dialectFor(db)
	if err != nil {
		return err
	}

	if err := dialect.createSchema(ctx, db, schema); err != nil {
		return VerifyError{Pos: pos, Schema: schema, Wrapped: err}
	}
	defer func() {
		_ = dialect.dropSchema(ctx, db, schema)
	}()

	qualified, err := dialect.qualify(declaration, schema)
	if err != nil {
		return VerifyError{Pos: pos, Schema: schema, Wrapped: err}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return VerifyError{Pos: pos, Schema: schema, Wrapped: err}
	}
	if _, err := tx.ExecContext(ctx, string(qualified)); err != nil {
		_ = tx.Rollback()
		return VerifyError{Pos: pos, Schema: schema, Wrapped: err}
	}
	if err := tx.Commit(); err != nil {
		return VerifyError{Pos: pos, Schema: schema, Wrapped: err}
	}
	return nil
}

// dialect hides the SQL Server / Postgres wording differences behind
// the driver-type-switch dispatch pattern the teacher uses in
// dbops.go's Exists/Drop.
type dialect interface {
	createSchema(ctx context.Context, db DB, schema string) error
	dropSchema(ctx context.Context, db DB, schema string) error
	qualify(declaration []byte, schema string) ([]byte, error)
}

func dialectFor(db DB) (dialect, error) {
	switch db.Driver().(type) {
	case *mssql.Driver:
		return mssqlDialect{}, nil
	case *stdlib.Driver:
		return pgDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %T", db.Driver())
	}
}

type mssqlDialect struct{}

func (mssqlDialect) createSchema(ctx context.Context, db DB, schema string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA [%s]", schema))
	return err
}

func (mssqlDialect) dropSchema(ctx context.Context, db DB, schema string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf("DROP SCHEMA [%s]", schema))
	return err
}

func (mssqlDialect) qualify(declaration []byte, schema string) ([]byte, error) {
	return rewriteSchema(declaration, "["+schema+"].")
}

type pgDialect struct{}

func (pgDialect) createSchema(ctx context.Context, db DB, schema string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA "%s"`, schema))
	return err
}

func (pgDialect) dropSchema(ctx context.Context, db DB, schema string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`DROP SCHEMA "%s" CASCADE`, schema))
	return err
}

func (pgDialect) qualify(declaration []byte, schema string) ([]byte, error) {
	return rewriteSchema(declaration, `"`+schema+`".`)
}

// rewriteSchema inserts prefix in front of the object name in a
// `CREATE [OR REPLACE] <type> <name> ...` declaration, using the same
// declaration grammar the lexer recognizes (§2) rather than a second,
// divergent regex dialect.
func rewriteSchema(declaration []byte, prefix string) ([]byte, error) {
	loc := declRewriteRe.FindIndex(declaration)
	if loc == nil {
		return nil, fmt.Errorf("declaration does not start with a recognizable CREATE statement")
	}
	nameStart := loc[1]
	out := make([]byte, 0, len(declaration)+len(prefix))
	out = append(out, declaration[:nameStart]...)
	out = append(out, prefix...)
	out = append(out, declaration[nameStart:]...)
	return out, nil
}
