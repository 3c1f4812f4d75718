package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema holds the idempotent DDL for the library catalog.  Statements
// are ordered so that referenced tables exist before their foreign
// keys.  books.borrower_id uses ON DELETE SET NULL: removing a user
// frees any book they held instead of cascading into the catalog.
// users.email carries a binary collation so lookups are case-sensitive
// exact matches.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(255)    COLLATE utf8mb4_bin NOT NULL,
		password_hash VARCHAR(255)    NOT NULL,
		role          VARCHAR(32)     NOT NULL DEFAULT 'Client',
		created_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS books (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title       VARCHAR(255)    NOT NULL,
		description TEXT            NOT NULL,
		borrower_id BIGINT UNSIGNED NULL,
		created_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_books_borrower (borrower_id),
		CONSTRAINT fk_books_borrower FOREIGN KEY (borrower_id)
			REFERENCES users (id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS authors (
		id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255)    NOT NULL,
		PRIMARY KEY (id),
		KEY idx_authors_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS genres (
		id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name VARCHAR(255)    NOT NULL,
		PRIMARY KEY (id),
		KEY idx_genres_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS book_authors (
		book_id   BIGINT UNSIGNED NOT NULL,
		author_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (book_id, author_id),
		CONSTRAINT fk_ba_book FOREIGN KEY (book_id) REFERENCES books (id),
		CONSTRAINT fk_ba_author FOREIGN KEY (author_id) REFERENCES authors (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS book_genres (
		book_id  BIGINT UNSIGNED NOT NULL,
		genre_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (book_id, genre_id),
		CONSTRAINT fk_bg_book FOREIGN KEY (book_id) REFERENCES books (id),
		CONSTRAINT fk_bg_genre FOREIGN KEY (genre_id) REFERENCES genres (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS user_favorite_books (
		user_id BIGINT UNSIGNED NOT NULL,
		book_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (user_id, book_id),
		CONSTRAINT fk_fav_user FOREIGN KEY (user_id) REFERENCES users (id),
		CONSTRAINT fk_fav_book FOREIGN KEY (book_id) REFERENCES books (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate applies the catalog schema.  Every statement is idempotent
// (CREATE TABLE IF NOT EXISTS), so Migrate is safe to run on every
// startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
