package repository

import (
	"context"
	"database/sql"
)

// LoanRepo owns the single-holder lending rule: a book has at most one
// borrower at a time, stored in books.borrower_id.  There is no return
// operation; once taken a book stays with its holder until the row is
// deleted or the user is removed (which frees the book via the foreign
// key's SET NULL).
type LoanRepo struct {
	db *sql.DB
}

// NewLoanRepo returns a LoanRepo bound to the given database.
func NewLoanRepo(db *sql.DB) *LoanRepo { return &LoanRepo{db: db} }

// Borrow assigns the book to the user.  The assignment is a single
// compare-and-swap: the UPDATE only matches while borrower_id is NULL,
// so of two concurrent calls on a free book exactly one affects a row
// and the other fails with ErrBookTaken.  The current holder borrowing
// again is rejected the same way.
func (r *LoanRepo) Borrow(ctx context.Context, bookID, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE books SET borrower_id=? WHERE id=? AND borrower_id IS NULL",
		userID, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	// Zero rows: either the book does not exist or someone holds it.
	var holder sql.NullInt64
	err = r.db.QueryRowContext(ctx,
		"SELECT borrower_id FROM books WHERE id=? LIMIT 1", bookID).Scan(&holder)
	if err == sql.ErrNoRows {
		return ErrBookNotFound
	}
	if err != nil {
		return err
	}
	return ErrBookTaken
}
