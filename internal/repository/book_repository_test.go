package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookRepoCreateResolvesRelations(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookRepo(db)

	b, err := repo.Create(context.Background(), "Dune", "Desert planet",
		[]string{"Frank Herbert"}, []string{"Sci-Fi", "Adventure"})
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, []string{"Frank Herbert"}, b.Authors)
	assert.Equal(t, []string{"Sci-Fi", "Adventure"}, b.Genres)

	got, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, []string{"Frank Herbert"}, got.Authors)
	assert.Equal(t, []string{"Sci-Fi", "Adventure"}, got.Genres)
	assert.Nil(t, got.BorrowerID)
}

func TestBookRepoCreateReusesAuthorsAndGenres(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookRepo(db)

	first := mustCreateBook(t, repo, "Dune", "", []string{"Frank Herbert"}, []string{"Sci-Fi"})
	second := mustCreateBook(t, repo, "Dune Messiah", "", []string{"Frank Herbert"}, []string{"Sci-Fi"})

	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM authors"), "exact name match reuses the row")
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM genres"))
	assert.Equal(t, 2, count(t, db, "SELECT COUNT(*) FROM book_authors"))

	// Both books link to the same author row.
	var authorOfFirst, authorOfSecond uint64
	require.NoError(t, db.QueryRow("SELECT author_id FROM book_authors WHERE book_id=?", first).Scan(&authorOfFirst))
	require.NoError(t, db.QueryRow("SELECT author_id FROM book_authors WHERE book_id=?", second).Scan(&authorOfSecond))
	assert.Equal(t, authorOfFirst, authorOfSecond)

	// A different name still creates a new row.
	mustCreateBook(t, repo, "Neuromancer", "", []string{"William Gibson"}, nil)
	assert.Equal(t, 2, count(t, db, "SELECT COUNT(*) FROM authors"))
}

func TestBookRepoCreateCollapsesDuplicateNamesInRequest(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookRepo(db)

	b, err := repo.Create(context.Background(), "Anthology", "",
		[]string{"Alice", "Alice", " Alice "}, []string{"Essays", "Essays"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, b.Authors)
	assert.Equal(t, []string{"Essays"}, b.Genres)
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM authors"))
}

func TestBookRepoListAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()

	id1 := mustCreateBook(t, repo, "One", "first", []string{"A"}, []string{"G"})
	id2 := mustCreateBook(t, repo, "Two", "second", []string{"B"}, nil)

	books, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, id1, books[0].ID)
	assert.Equal(t, id2, books[1].ID)
	assert.Equal(t, []string{}, books[1].Genres, "empty relation stays an empty slice")

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookRepoSearch(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()

	mustCreateBook(t, repo, "The Go Programming Language", "", nil, nil)
	mustCreateBook(t, repo, "Learning Python", "", nil, nil)
	mustCreateBook(t, repo, "GO IN ACTION", "", nil, nil)

	got, err := repo.Search(ctx, "go")
	require.NoError(t, err)
	require.Len(t, got, 2, "matching is case-insensitive on both sides")

	got, err = repo.Search(ctx, "PYTHON")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Learning Python", got[0].Title)

	// Blank filter behaves like List.
	got, err = repo.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = repo.Search(ctx, "no such title")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBookRepoSearchFoldsUnicodeCase(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()

	mustCreateBook(t, repo, "ВОЙНА И МИР", "", nil, nil)
	mustCreateBook(t, repo, "Über die Liebe", "", nil, nil)

	got, err := repo.Search(ctx, "война")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ВОЙНА И МИР", got[0].Title)

	got, err = repo.Search(ctx, "ÜBER")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Über die Liebe", got[0].Title)
}

func TestBookRepoDeleteCleansRelations(t *testing.T) {
	db := openTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()

	uid := seedUser(t, db, "fan@example.com", "Client")
	id := mustCreateBook(t, repo, "Doomed", "", []string{"A"}, []string{"G"})
	_, err := db.Exec("INSERT INTO user_favorite_books (user_id, book_id) VALUES (?,?)", uid, id)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	assert.Equal(t, 0, count(t, db, "SELECT COUNT(*) FROM books"))
	assert.Equal(t, 0, count(t, db, "SELECT COUNT(*) FROM book_authors"))
	assert.Equal(t, 0, count(t, db, "SELECT COUNT(*) FROM book_genres"))
	assert.Equal(t, 0, count(t, db, "SELECT COUNT(*) FROM user_favorite_books"))
	// Author and genre rows stay; only the links go.
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM authors"))

	assert.ErrorIs(t, repo.Delete(ctx, id), ErrBookNotFound)
}
