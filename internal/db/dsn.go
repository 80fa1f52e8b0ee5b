package db

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// NormaliseDSN forces parseTime so DATETIME columns scan into time.Time.
// multiStatements is only wanted by the migrator.
func NormaliseDSN(dsn string, multiStatements bool) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MariaDB DSN: %w", err)
	}
	cfg.ParseTime = true
	if multiStatements {
		cfg.MultiStatements = true
	}
	return cfg.FormatDSN(), nil
}
