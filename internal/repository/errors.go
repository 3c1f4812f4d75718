// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them to HTTP status codes: not-found errors become 404 responses,
// conflicting-state errors (a book that already has a borrower, a
// favorite pair that already exists) become 409 responses.
package repository

import "errors"

// ErrBookNotFound is returned when no book with the requested id
// exists. Handlers translate this into an HTTP 404 response.
var ErrBookNotFound = errors.New("book not found")

// ErrUserNotFound is returned when an operation references a user row
// that does not exist, either by id (favorites) or by email (the
// maintenance role-set path).
var ErrUserNotFound = errors.New("user not found")

// ErrBookTaken is returned when a borrow attempt loses the
// compare-and-swap against books.borrower_id, i.e. the book already has
// a holder. Re-borrowing by the current holder is rejected the same way.
var ErrBookTaken = errors.New("book already taken")

// ErrAlreadyFavorite is returned when the (user, book) pair is already
// present in user_favorite_books.
var ErrAlreadyFavorite = errors.New("book already in favorites")

// ErrNotFavorite is returned when removing a favorite that is not in
// the caller's list. Handlers report it as a 404, the same shape as a
// missing user.
var ErrNotFavorite = errors.New("book not in favorites")

// ErrUnknownRole is returned by the role-set path when the requested
// role is outside the closed {Client, Admin} set.
var ErrUnknownRole = errors.New("unknown role")
