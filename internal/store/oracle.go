package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	go_ora "github.com/sijms/go-ora/v2"
	"github.com/sijms/go-ora/v2/network"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

// oraCheckViolation is ORA-02290: check constraint violated.
const oraCheckViolation = 2290

// OracleConfig holds connection settings for an Oracle database.
type OracleConfig struct {
	Host           string
	Port           string
	Service        string
	Username       string
	Password       string
	WalletLocation string
}

// DSN builds the go-ora connection string. Autonomous databases require
// TCPS, so ssl is always on; a wallet switches the connection to mTLS.
func (c OracleConfig) DSN() (string, error) {
	if c.Host == "" || c.Service == "" {
		return "", fmt.Errorf("oracle: host and service are required")
	}
	if c.Username == "" {
		return "", fmt.Errorf("oracle: username is required")
	}

	port := 1521
	if c.Port != "" {
		p, err := strconv.Atoi(c.Port)
		if err != nil || p <= 0 {
			return "", fmt.Errorf("oracle: invalid port %q", c.Port)
		}
		port = p
	}

	options := map[string]string{"SSL": "true"}
	if c.WalletLocation != "" {
		options["WALLET"] = c.WalletLocation
	}

	// BuildUrl escapes the credentials.
	return go_ora.BuildUrl(c.Host, port, c.Service, c.Username, c.Password, options), nil
}

var oracleDialect = &dialect{
	driver:  DriverOracle,
	prepare: ensureOracleSchema,
	insert: func(ctx context.Context, db *sql.DB, f taxpayer.Fields) (taxpayer.TID, error) {
		var id int64
		_, err := db.ExecContext(ctx, `
			INSERT INTO taxpayers (first_name, last_name, address)
			VALUES (:1, :2, :3)
			RETURNING tid INTO :4
		`, f.FirstName, f.LastName, f.Address, sql.Out{Dest: &id})
		if err != nil {
			return 0, err
		}
		return taxpayer.TID(id), nil
	},
	isCheckViolation: func(err error) bool {
		var oraErr *network.OracleError
		if errors.As(err, &oraErr) {
			return oraErr.ErrCode == oraCheckViolation
		}
		return false
	},
}

// ensureOracleSchema creates the taxpayers table when it is missing.
// Oracle has no CREATE TABLE IF NOT EXISTS before 23c, so check first.
func ensureOracleSchema(ctx context.Context, db *sql.DB) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_tables WHERE table_name = 'TAXPAYERS'`,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("check taxpayers table: %w", err)
	}
	if count > 0 {
		return nil
	}

	statements := []string{
		`CREATE TABLE taxpayers (
			tid        NUMBER GENERATED ALWAYS AS IDENTITY (NOCACHE ORDER) PRIMARY KEY,
			first_name VARCHAR2(400) NOT NULL CHECK (LENGTH(first_name) > 0),
			last_name  VARCHAR2(400) NOT NULL CHECK (LENGTH(last_name) > 0),
			address    VARCHAR2(1000) NOT NULL CHECK (LENGTH(address) > 0)
		)`,
		`CREATE INDEX idx_taxpayers_name ON taxpayers(last_name, first_name)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create taxpayers schema: %w", err)
		}
	}
	return nil
}
