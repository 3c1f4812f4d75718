package model

// Book represents a catalog entry as stored in the `books` table.  A
// book is linked to authors and genres through the `book_authors` and
// `book_genres` join tables; repositories resolve those relations into
// the Authors and Genres name slices when loading.
//
// Fields:
//  ID          – primary key identifier of the book.
//  Title       – book title.
//  Description – free-form description text.
//  BorrowerID  – id of the user currently holding the book, nil when
//                the book is on the shelf.  At most one borrower at a
//                time; the column is set atomically by the loan
//                repository.
//  Authors     – resolved author names, in insertion order.
//  Genres      – resolved genre names, in insertion order.
type Book struct {
	ID          uint64   // books.id
	Title       string   // books.title
	Description string   // books.description
	BorrowerID  *uint64  // books.borrower_id (nullable)
	Authors     []string // resolved via book_authors -> authors
	Genres      []string // resolved via book_genres -> genres
}
