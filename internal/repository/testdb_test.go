package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// testSchema mirrors the production DDL in SQLite dialect.  SQLite
// compares TEXT case-sensitively by default, matching the binary
// collation on users.email in MySQL.
var testSchema = []string{
	`CREATE TABLE users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'Client'
	)`,
	`CREATE TABLE books (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		borrower_id INTEGER NULL REFERENCES users (id)
	)`,
	`CREATE TABLE authors (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE genres (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE book_authors (
		book_id   INTEGER NOT NULL,
		author_id INTEGER NOT NULL,
		PRIMARY KEY (book_id, author_id)
	)`,
	`CREATE TABLE book_genres (
		book_id  INTEGER NOT NULL,
		genre_id INTEGER NOT NULL,
		PRIMARY KEY (book_id, genre_id)
	)`,
	`CREATE TABLE user_favorite_books (
		user_id INTEGER NOT NULL,
		book_id INTEGER NOT NULL,
		PRIMARY KEY (user_id, book_id)
	)`,
}

// openTestDB returns an in-memory SQLite database with the catalog
// schema applied.  The pool is pinned to a single connection so the
// in-memory database survives across queries and transactions.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedUser inserts a user row directly and returns its id.
func seedUser(t *testing.T, db *sql.DB, email, role string) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO users (email, password_hash, role) VALUES (?,?,?)",
		email, "x", role)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// count runs a COUNT(*) with an optional WHERE clause.
func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

// mustCreateBook persists a book through the repository under test.
func mustCreateBook(t *testing.T, repo *BookRepo, title, description string, authors, genres []string) uint64 {
	t.Helper()
	b, err := repo.Create(context.Background(), title, description, authors, genres)
	require.NoError(t, err)
	return b.ID
}
