package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/entitysql/internal/sqlgen"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	*sqlStore
	database string
}

// NewMySQLClient creates a new MySQL client from a driver DSN
// (user:pass@tcp(host:port)/database). Time columns are scanned as
// time.Time.
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("no database name in DSN %q", dsn)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := openSQL(ctx, sql.OpenDB(connector), sqlgen.MySQL)
	if err != nil {
		return nil, err
	}
	return &MySQLClient{sqlStore: store, database: cfg.DBName}, nil
}

// Database returns the database name taken from the DSN
func (c *MySQLClient) Database() string {
	return c.database
}
