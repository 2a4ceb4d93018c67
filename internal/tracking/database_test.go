package tracking

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDatabase(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "history.db")

	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestNewDatabaseInMemory(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	defer db.Close()

	// Schema should exist
	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='playbacks'").Scan(&name)
	if err != nil {
		t.Fatalf("playbacks table not found: %v", err)
	}
}

func TestNewDatabaseCreatesParentDirectory(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nested", "deeper", "history.db")

	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("parent directory was not created")
	}
}

func TestSchemaRejectsInvalidKind(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`INSERT INTO playbacks (source, kind, engine, started_at, outcome)
		VALUES ('test.wav', 'stream', 'portable', 1700000000, 'completed')`)
	if err == nil {
		t.Error("expected CHECK constraint to reject invalid kind")
	}
}

func TestSchemaRejectsInvalidOutcome(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	defer db.Close()

	_, err = db.Exec(`INSERT INTO playbacks (source, kind, engine, started_at, outcome)
		VALUES ('test.wav', 'file', 'portable', 1700000000, 'interrupted')`)
	if err == nil {
		t.Error("expected CHECK constraint to reject invalid outcome")
	}
}

func TestDatabaseReopen(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "history.db")

	db, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	_, err = db.Exec(`INSERT INTO playbacks (source, kind, engine, started_at, outcome)
		VALUES ('test.wav', 'file', 'portable', 1700000000, 'completed')`)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	db.Close()

	db2, err := NewDatabase(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db2.Close()

	var count int
	if err := db2.QueryRow("SELECT COUNT(*) FROM playbacks").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 record after reopen, got %d", count)
	}
}
