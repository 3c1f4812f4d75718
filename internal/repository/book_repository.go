package repository

import (
	"context"
	"database/sql"
	"strings"

	"online-library/internal/model"
)

// BookRepo provides catalog access: listing, lookup, title search and
// the admin-only create/delete mutations.  Loading resolves author and
// genre names for every returned book.  Create and Delete run inside a
// transaction so the join tables never disagree with the books table.
type BookRepo struct {
	db *sql.DB
}

// NewBookRepo returns a BookRepo bound to the given database.
func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{db: db} }

// List returns every book with authors and genres resolved.  Ordering
// is by primary key, which keeps the CSV export stable between calls.
func (r *BookRepo) List(ctx context.Context) ([]model.Book, error) {
	return r.query(ctx, "", nil)
}

// Search returns books whose title contains the given substring,
// case-insensitively.  A blank filter behaves like List.  Case folding
// runs in Go via strings.ToLower on both the filter and the titles:
// SQL LOWER() is ASCII-only on some backends and would miss non-Latin
// titles.
func (r *BookRepo) Search(ctx context.Context, title string) ([]model.Book, error) {
	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return r.List(ctx)
	}
	books, err := r.query(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	out := books[:0]
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) {
			out = append(out, b)
		}
	}
	return out, nil
}

// GetByID returns a single book with relations resolved, or
// ErrBookNotFound.
func (r *BookRepo) GetByID(ctx context.Context, id uint64) (model.Book, error) {
	books, err := r.query(ctx, "WHERE id = ?", []any{id})
	if err != nil {
		return model.Book{}, err
	}
	if len(books) == 0 {
		return model.Book{}, ErrBookNotFound
	}
	return books[0], nil
}

// query runs the base book select with an optional WHERE clause and
// resolves relations for the resulting set.
func (r *BookRepo) query(ctx context.Context, where string, args []any) ([]model.Book, error) {
	q := "SELECT id, title, description, borrower_id FROM books "
	if where != "" {
		q += where + " "
	}
	q += "ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		var borrower sql.NullInt64
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &borrower); err != nil {
			return nil, err
		}
		if borrower.Valid {
			v := uint64(borrower.Int64)
			b.BorrowerID = &v
		}
		b.Authors = []string{}
		b.Genres = []string{}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachNames(ctx, books,
		"SELECT ba.book_id, a.name FROM book_authors ba JOIN authors a ON a.id = ba.author_id WHERE ba.book_id IN (%s) ORDER BY a.id",
		func(b *model.Book, name string) { b.Authors = append(b.Authors, name) }); err != nil {
		return nil, err
	}
	if err := r.attachNames(ctx, books,
		"SELECT bg.book_id, g.name FROM book_genres bg JOIN genres g ON g.id = bg.genre_id WHERE bg.book_id IN (%s) ORDER BY g.id",
		func(b *model.Book, name string) { b.Genres = append(b.Genres, name) }); err != nil {
		return nil, err
	}
	return books, nil
}

// attachNames loads one relation (authors or genres) for the whole book
// set in a single IN-list query and appends names via the provided
// setter.
func (r *BookRepo) attachNames(ctx context.Context, books []model.Book, queryTmpl string, attach func(*model.Book, string)) error {
	if len(books) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.Book, len(books))
	placeholders := make([]string, 0, len(books))
	args := make([]any, 0, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
		placeholders = append(placeholders, "?")
		args = append(args, books[i].ID)
	}
	q := strings.Replace(queryTmpl, "%s", strings.Join(placeholders, ","), 1)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bookID uint64
		var name string
		if err := rows.Scan(&bookID, &name); err != nil {
			return err
		}
		if b, ok := byID[bookID]; ok {
			attach(b, name)
		}
	}
	return rows.Err()
}

// Create persists a new book with its author and genre references.  For
// each supplied name an existing row with an exact name match is
// reused, otherwise one is inserted; names repeated within the request
// are collapsed first.  Everything happens in one transaction so a
// failed insert never leaves orphan join rows, and the created book is
// returned with relations resolved.
func (r *BookRepo) Create(ctx context.Context, title, description string, authorNames, genreNames []string) (model.Book, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Book{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO books (title, description) VALUES (?,?)", title, description)
	if err != nil {
		return model.Book{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Book{}, err
	}
	bookID := uint64(id)

	authors, err := resolveNamesTx(ctx, tx, "authors", authorNames)
	if err != nil {
		return model.Book{}, err
	}
	genres, err := resolveNamesTx(ctx, tx, "genres", genreNames)
	if err != nil {
		return model.Book{}, err
	}
	for _, a := range authors {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO book_authors (book_id, author_id) VALUES (?,?)", bookID, a.ID); err != nil {
			return model.Book{}, err
		}
	}
	for _, g := range genres {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO book_genres (book_id, genre_id) VALUES (?,?)", bookID, g.ID); err != nil {
			return model.Book{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Book{}, err
	}
	committed = true

	book := model.Book{ID: bookID, Title: title, Description: description,
		Authors: []string{}, Genres: []string{}}
	for _, a := range authors {
		book.Authors = append(book.Authors, a.Name)
	}
	for _, g := range genres {
		book.Genres = append(book.Genres, g.Name)
	}
	return book, nil
}

// namedRow is a resolved authors/genres row.
type namedRow struct {
	ID   uint64
	Name string
}

// resolveNamesTx maps each name to an existing row in the given table
// (exact match) or inserts a new one.  Duplicate names inside the input
// collapse to a single row, preserving first-seen order.  table is one
// of the fixed identifiers "authors" or "genres", never user input.
func resolveNamesTx(ctx context.Context, tx *sql.Tx, table string, names []string) ([]namedRow, error) {
	out := make([]namedRow, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var id uint64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM "+table+" WHERE name=? LIMIT 1", name).Scan(&id)
		switch {
		case err == sql.ErrNoRows:
			res, insErr := tx.ExecContext(ctx,
				"INSERT INTO "+table+" (name) VALUES (?)", name)
			if insErr != nil {
				return nil, insErr
			}
			newID, insErr := res.LastInsertId()
			if insErr != nil {
				return nil, insErr
			}
			id = uint64(newID)
		case err != nil:
			return nil, err
		}
		out = append(out, namedRow{ID: id, Name: name})
	}
	return out, nil
}

// Delete removes a book together with its authorship, genre tagging and
// favorites join rows.  The borrow reference disappears with the row
// itself.  Returns ErrBookNotFound when no book with the id exists.
func (r *BookRepo) Delete(ctx context.Context, id uint64) error {
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

	for _, q := range []string{
		"DELETE FROM book_authors WHERE book_id=?",
		"DELETE FROM book_genres WHERE book_id=?",
		"DELETE FROM user_favorite_books WHERE book_id=?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM books WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
