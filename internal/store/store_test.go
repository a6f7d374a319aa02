// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"contentadmin/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "contentadmin")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "contentadmin")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testRowStore wraps testDB in a RowStore with a short backoff.
func testRowStore(t *testing.T) (*sql.DB, *database.RowStore) {
	t.Helper()
	db := testDB(t)
	return db, database.NewRowStore(db, 2, 10*time.Millisecond)
}

// testType returns a node type unique to this test run, so cleanContent
// can find every node the test created.
func testType() string {
	return "test-" + uuid.NewString()[:8]
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanContent removes test nodes of the given types and their
// translations. Call in t.Cleanup().
func cleanContent(t *testing.T, db *sql.DB, types ...string) {
	t.Helper()
	for _, typ := range types {
		db.Exec(`DELETE FROM content_translation
			WHERE content_id IN (SELECT id FROM content WHERE type = $1)`, typ)
		db.Exec("DELETE FROM content WHERE type = $1", typ)
	}
}

// cleanVersions removes test versions by number. Call in t.Cleanup().
func cleanVersions(t *testing.T, db *sql.DB, numbers ...string) {
	t.Helper()
	for _, n := range numbers {
		db.Exec("DELETE FROM versions WHERE version_number = $1", n)
	}
}
