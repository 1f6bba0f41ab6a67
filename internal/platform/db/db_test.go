package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenSqlite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	db, err := OpenSqlite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSqlite: %v", err)
	}
	defer db.Close()

	var one int
	if err := db.QueryRow("SELECT 1").Scan(&one); err != nil || one != 1 {
		t.Fatalf("SELECT 1 = %d, %v", one, err)
	}
}

func TestOpenPostgresInvalidURL(t *testing.T) {
	if _, err := OpenPostgres(context.Background(), "postgres://%zz"); err == nil {
		t.Fatal("expected error for malformed database url")
	}
}
