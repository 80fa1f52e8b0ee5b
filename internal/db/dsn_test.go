package db

import (
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestNormaliseDSN(t *testing.T) {
	out, err := NormaliseDSN("user:pass@tcp(db:3306)/conversions", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := mysql.ParseDSN(out)
	if err != nil {
		t.Fatalf("normalised DSN does not parse: %v", err)
	}
	if !cfg.ParseTime || !cfg.MultiStatements {
		t.Errorf("flags not set: parseTime=%v multiStatements=%v", cfg.ParseTime, cfg.MultiStatements)
	}
	if cfg.DBName != "conversions" || cfg.Addr != "db:3306" {
		t.Errorf("unexpected target %s/%s", cfg.Addr, cfg.DBName)
	}
}

func TestNormaliseDSN_KeepsSingleStatements(t *testing.T) {
	out, err := NormaliseDSN("user:pass@tcp(db:3306)/conversions?parseTime=false", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, _ := mysql.ParseDSN(out)
	if !cfg.ParseTime || cfg.MultiStatements {
		t.Errorf("parseTime=%v multiStatements=%v", cfg.ParseTime, cfg.MultiStatements)
	}
}

func TestNormaliseDSN_Invalid(t *testing.T) {
	if _, err := NormaliseDSN("not a dsn", false); err == nil {
		t.Fatal("expected error")
	}
}
