// Package queue defines message payloads exchanged over the message broker.
package queue

// BookBorrowedEvent is published when a book is successfully taken.
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type BookBorrowedEvent struct {
	BookID     uint64 `json:"book_id"`
	BookTitle  string `json:"book_title"`
	UserID     uint64 `json:"user_id"`
	BorrowedAt string `json:"borrowed_at"`
}
