package repos

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "modernc.org/sqlite"
)

const MemoryDSN = ":memory:"

type SQLite struct {
	db *sql.DB
}

func GetSQLiteConnection(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		path = MemoryDSN
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database %s: %w", path, err)
	}

	// every connection to :memory: is its own database
	if isMemory(path) {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging sqlite database %s: %w", path, err)
	}

	if !isMemory(path) {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
			log.Printf("failed to set WAL mode on %s: %v", path, err)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
			log.Printf("failed to set synchronous mode on %s: %v", path, err)
		}
	}

	return &SQLite{db}, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() {
	if err := s.db.Close(); err != nil {
		log.Printf("error closing sqlite database: %v", err)
	}
}

func (s *SQLite) GetTransaction(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

func isMemory(path string) bool {
	return path == MemoryDSN || strings.Contains(path, "mode=memory")
}
