package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeBook(t *testing.T) {
	s := newTestServer(t)
	u1 := s.register(t, "u1@example.com", "pw1")
	u2 := s.register(t, "u2@example.com", "pw2")
	tok1 := s.tokenFor(t, u1, "u1@example.com", "Client")
	tok2 := s.tokenFor(t, u2, "u2@example.com", "Client")
	seedBook(t, s, "Borrowable", nil, nil)

	rec := s.do(t, http.MethodPost, "/v1/books/take/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "lending requires a login")

	rec = s.do(t, http.MethodPost, "/v1/books/take/1", tok1, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var taken bookJSON
	decodeJSON(t, rec, &taken)
	require.NotNil(t, taken.BorrowerID)
	assert.Equal(t, u1, *taken.BorrowerID)

	// Second take fails for anyone, the holder included.
	rec = s.do(t, http.MethodPost, "/v1/books/take/1", tok2, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(t, http.MethodPost, "/v1/books/take/1", tok1, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/books/take/999", tok1, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFavoritesFlow(t *testing.T) {
	s := newTestServer(t)
	uid := s.register(t, "fan@example.com", "pw")
	tok := s.tokenFor(t, uid, "fan@example.com", "Client")
	seedBook(t, s, "Liked", []string{"A"}, []string{"G"})

	rec := s.do(t, http.MethodPost, "/v1/books/favorites/1", tok, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/books/favorites/1", tok, "")
	assert.Equal(t, http.StatusConflict, rec.Code, "duplicate favorite is rejected")

	rec = s.do(t, http.MethodGet, "/v1/books/favorites", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []bookJSON
	decodeJSON(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Liked", list[0].Title)
	assert.Equal(t, []string{"A"}, list[0].Authors)

	rec = s.do(t, http.MethodDelete, "/v1/books/favorites/1", tok, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodDelete, "/v1/books/favorites/1", tok, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "already removed")

	rec = s.do(t, http.MethodPost, "/v1/books/favorites/999", tok, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFavoritesAreScopedToTokenIdentity(t *testing.T) {
	s := newTestServer(t)
	u1 := s.register(t, "u1@example.com", "pw1")
	u2 := s.register(t, "u2@example.com", "pw2")
	tok1 := s.tokenFor(t, u1, "u1@example.com", "Client")
	tok2 := s.tokenFor(t, u2, "u2@example.com", "Client")
	seedBook(t, s, "Contended", nil, nil)

	rec := s.do(t, http.MethodPost, "/v1/books/favorites/1", tok1, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The other user's list stays empty; the caller id comes from the
	// token, not from anything the client can forge in the request.
	rec = s.do(t, http.MethodGet, "/v1/books/favorites", tok2, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []bookJSON
	decodeJSON(t, rec, &list)
	assert.Empty(t, list)

	// Nor can user 2 remove user 1's favorite.
	rec = s.do(t, http.MethodDelete, "/v1/books/favorites/1", tok2, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTakeRejectsForgedTokens(t *testing.T) {
	s := newTestServer(t)
	seedBook(t, s, "Guarded", nil, nil)

	rec := s.do(t, http.MethodPost, "/v1/books/take/1", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
