package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/GregMSThompson/ledger-engine/internal/config"
	"github.com/GregMSThompson/ledger-engine/internal/notify"
)

func TestRunMemoryStore(t *testing.T) {
	cfg := &config.Config{LogLevel: "error", Store: config.StoreMemory}
	bs, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	defer bs.Close()

	if bs.Log == nil || bs.Store == nil {
		t.Fatal("expected logger and store to be set")
	}
	if _, ok := bs.Publisher.(notify.NopPublisher); !ok {
		t.Errorf("expected NopPublisher without AMQP, got %T", bs.Publisher)
	}
}

func TestRunSQLiteStoreWithCache(t *testing.T) {
	cfg := &config.Config{
		LogLevel:   "error",
		Store:      config.StoreSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "ledger.db"),
		CacheSize:  16,
	}
	bs, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if err := bs.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
}

func TestInitStoreUnknown(t *testing.T) {
	s, err := InitStore(t.Context(), &config.Config{Store: "redis"})
	if err == nil || s != nil {
		t.Fatalf("expected error and nil store, got %v, %v", s, err)
	}
}
