package verify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
	"gopkg.in/yaml.v3"
)

// DatabaseConfig names one target a deployed object can be verified
// against. Open dials Connection; the Dsn field is not filled in from
// Connection by LoadConfig or read by Open.
// Grounded on the teacher's cli/cmd/config.go.
type DatabaseConfig struct {
	Connection string `yaml:"connection"`
	Dsn        msdsn.Config
}

// Config is the top-level plsqlnorm.yaml document: a named set of
// database targets the verify command can dial.
type Config struct {
	Databases map[string]DatabaseConfig `yaml:"databases"`
}

// LoadConfig reads and parses path (plsqlnorm.yaml by convention).
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Open dials the target, routing azuresql:// DSNs through Azure AD
// token auth and sqlserver:// DSNs through SQL login, and threading a
// SOCKS5 proxy in from SQL_SOCKS when set. pgx DSNs (postgres://) open
// through the standard driver registry instead, since neither
// azuread nor the mssql SOCKS5 connector applies to them.
func (dbcfg DatabaseConfig) Open(ctx context.Context, log logrus.FieldLogger) (*sql.DB, error) {
	dsn := dbcfg.Connection
	switch {
	case strings.HasPrefix(dsn, "azuresql://"):
		return openMSSQL(dsn, azuread.NewConnector)
	case strings.HasPrefix(dsn, "sqlserver://"):
		return openMSSQL(dsn, mssql.NewConnector)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		log.Debug("opening postgres target directly, SQL_SOCKS is ignored for this driver")
		return sql.Open("pgx", dsn)
	default:
		return nil, errors.New("expected a sqlserver://, azuresql:// or postgres:// connection string")
	}
}

func openMSSQL(dsn string, newConnector func(string) (*mssql.Connector, error)) (*sql.DB, error) {
	connector, err := newConnector(dsn)
	if err != nil {
		return nil, err
	}
	if proxyAddr := os.Getenv("SQL_SOCKS"); proxyAddr != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("could not connect with SOCKS5 to %s: %w", proxyAddr, err)
		}
		connector.Dialer = dialer.(proxy.ContextDialer)
	}
	return sql.OpenDB(connector), nil
}
