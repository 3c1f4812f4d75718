package repository

import (
	"context"
	"database/sql"

	"online-library/internal/model"
)

// FavoriteRepo manages the user_favorite_books join table.  Membership
// is binary with no ordering or metadata; duplicates are prevented at
// insertion time inside a transaction rather than left to the primary
// key alone.
type FavoriteRepo struct {
	db    *sql.DB
	books *BookRepo
}

// NewFavoriteRepo returns a FavoriteRepo.  It borrows the BookRepo for
// relation-resolved listing.
func NewFavoriteRepo(db *sql.DB, books *BookRepo) *FavoriteRepo {
	return &FavoriteRepo{db: db, books: books}
}

// Add inserts the (user, book) pair.  Returns ErrUserNotFound or
// ErrBookNotFound when either side is missing and ErrAlreadyFavorite
// when the pair already exists.  The existence checks and the insert
// share one transaction so a concurrent duplicate cannot slip between
// them.
func (r *FavoriteRepo) Add(ctx context.Context, userID, bookID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var one int
	if err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE id=? LIMIT 1", userID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}
	if err := tx.QueryRowContext(ctx,
		"SELECT 1 FROM books WHERE id=? LIMIT 1", bookID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return ErrBookNotFound
		}
		return err
	}
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM user_favorite_books WHERE user_id=? AND book_id=? LIMIT 1",
		userID, bookID).Scan(&one)
	if err == nil {
		return ErrAlreadyFavorite
	}
	if err != sql.ErrNoRows {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_favorite_books (user_id, book_id) VALUES (?,?)",
		userID, bookID); err != nil {
		if isDuplicateErr(err) {
			return ErrAlreadyFavorite
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Remove deletes the (user, book) pair.  A missing user and a pair that
// was never added surface as the same not-found shape, matching the
// API's 404 contract for this operation.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, bookID uint64) error {
	var one int
	if err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE id=? LIMIT 1", userID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return ErrUserNotFound
		}
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM user_favorite_books WHERE user_id=? AND book_id=?",
		userID, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFavorite
	}
	return nil
}

// ListByUser returns the caller's favorited books with authors and
// genres resolved, ordered by book id.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT book_id FROM user_favorite_books WHERE user_id=? ORDER BY book_id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Book, 0, len(ids))
	for _, id := range ids {
		b, err := r.books.GetByID(ctx, id)
		if err != nil {
			if err == ErrBookNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
