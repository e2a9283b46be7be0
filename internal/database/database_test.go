package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPath(t *testing.T) {
	t.Cleanup(ResetPath)

	envPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv(PathEnv, envPath)
	if got, err := DefaultPath(); err != nil || got != envPath {
		t.Fatalf("DefaultPath with %s = %q, %v; want %q", PathEnv, got, err, envPath)
	}

	override := filepath.Join(t.TempDir(), "audit.db")
	SetPath(override)
	if got, err := DefaultPath(); err != nil || got != override {
		t.Fatalf("DefaultPath with SetPath = %q, %v; want %q", got, err, override)
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.db")

	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
}

func userVersion(t *testing.T, path string) int {
	t.Helper()
	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer db.Close()

	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	return v
}

func TestMigrate_AppliesPendingStepsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.db")
	steps := []string{
		`CREATE TABLE t (a TEXT)`,
		`ALTER TABLE t ADD COLUMN b TEXT NOT NULL DEFAULT ''`,
	}

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if err := Migrate(ctx, db, steps[:1]); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	// A second run at the same version must not re-run CREATE TABLE.
	if err := Migrate(ctx, db, steps[:1]); err != nil {
		t.Fatalf("repeat Migrate: %v", err)
	}
	if err := Migrate(ctx, db, steps); err != nil {
		t.Fatalf("upgrade Migrate: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO t (a, b) VALUES ('x', 'y')`); err != nil {
		t.Fatalf("insert after upgrade: %v", err)
	}
	_ = db.Close()

	if v := userVersion(t, path); v != 2 {
		t.Errorf("user_version = %d, want 2", v)
	}
}

func TestMigrate_FailedStepKeepsVersion(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit.db")

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	err = Migrate(ctx, db, []string{`CREATE TABLE t (a TEXT)`, `NOT VALID SQL`})
	_ = db.Close()
	if err == nil || !strings.Contains(err.Error(), "migration 2") {
		t.Fatalf("expected migration 2 error, got %v", err)
	}

	if v := userVersion(t, path); v != 1 {
		t.Errorf("user_version = %d, want 1", v)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer db.Close()

	if err := Migrate(ctx, db, []string{`CREATE TABLE a (x TEXT)`, `CREATE TABLE b (x TEXT)`}); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := Migrate(ctx, db, []string{`CREATE TABLE a (x TEXT)`}); err == nil {
		t.Fatal("expected an error for a schema newer than the migration list")
	}
}
