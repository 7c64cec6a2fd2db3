package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}
	defer s.Close()

	exerciseLedgerStore(t, s, "acc")
	// A second account does not see the first one's rows.
	exerciseLedgerStore(t, s, "other")
}

func TestSQLiteStoreReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore returned error: %v", err)
	}
	cs := sampleChangeset("acc")
	if err := s.Commit(t.Context(), "acc", cs); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer s.Close()
	l, err := s.Load(t.Context(), "acc")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(l.Transactions) != 2 || l.Meta.Sequences.Transaction != 2 {
		t.Fatalf("unexpected ledger after reopen: %+v", l)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DATABASEURL")
	if dsn == "" {
		t.Skip("DATABASEURL not set")
	}
	s, err := NewPostgresStore(dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore returned error: %v", err)
	}
	defer s.Close()

	account := "test-" + t.Name()
	for _, table := range []string{"transactions", "category_rules", "saving_goals", "payment_requests", "user_messages", "accounts"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE account_id = $1", account); err != nil {
			t.Fatalf("cleanup %s: %v", table, err)
		}
	}
	exerciseLedgerStore(t, s, account)
}

func TestRebind(t *testing.T) {
	got := Postgres.rebind("SELECT a FROM t WHERE x = ? AND y = ?")
	if got != "SELECT a FROM t WHERE x = $1 AND y = $2" {
		t.Fatalf("rebind = %q", got)
	}
	if q := SQLite.rebind("x = ?"); q != "x = ?" {
		t.Fatalf("sqlite rebind changed query: %q", q)
	}
}
