package postgres

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewPoolWithConfigInvalidURL(t *testing.T) {
	ctx := context.Background()

	_, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"})
	if !errors.Is(err, ErrInvalidDatabaseURL) {
		t.Fatalf("expected ErrInvalidDatabaseURL, got %v", err)
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx := context.Background()
	cfg := PoolConfig{
		DatabaseURL:    "postgres://invalid:5432/db",
		MaxConns:       1,
		ConnectTimeout: 500 * time.Millisecond,
	}

	_, err := NewPoolWithConfig(ctx, cfg)
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
	if errors.Is(err, ErrInvalidDatabaseURL) {
		t.Fatalf("connection failure must not be reported as a bad URL: %v", err)
	}
}

func TestConnectDoesNotRetryInvalidURL(t *testing.T) {
	r := fastRetrier()

	_, err := Connect(context.Background(), PoolConfig{DatabaseURL: "not-a-url"}, r)
	if !errors.Is(err, ErrInvalidDatabaseURL) {
		t.Fatalf("expected ErrInvalidDatabaseURL, got %v", err)
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	want := map[string]bool{
		"000001_create_accounts.up.sql":            false,
		"000001_create_accounts.down.sql":          false,
		"000002_create_transfers_entries.up.sql":   false,
		"000002_create_transfers_entries.down.sql": false,
	}
	for _, e := range entries {
		if _, ok := want[e.Name()]; ok {
			want[e.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("migration %s not embedded", name)
		}
	}
}

func TestMigratorInvalidURL(t *testing.T) {
	m := NewMigrator("://bad", testLogger())
	if err := m.Up(); err == nil {
		t.Fatal("expected error for invalid database URL")
	}
}
