package handler_test

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"online-library/internal/config"
	"online-library/internal/handler"
	"online-library/internal/repository"
	"online-library/internal/router"
	"online-library/internal/utils"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "online-library"
	testAudience = "online-library-clients"
)

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
	`CREATE TABLE authors (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)`,
	`CREATE TABLE genres (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)`,
	`CREATE TABLE book_authors (book_id INTEGER NOT NULL, author_id INTEGER NOT NULL, PRIMARY KEY (book_id, author_id))`,
	`CREATE TABLE book_genres (book_id INTEGER NOT NULL, genre_id INTEGER NOT NULL, PRIMARY KEY (book_id, genre_id))`,
	`CREATE TABLE user_favorite_books (user_id INTEGER NOT NULL, book_id INTEGER NOT NULL, PRIMARY KEY (user_id, book_id))`,
}

// testServer is a fully wired API over an in-memory SQLite store.
type testServer struct {
	e     *echo.Echo
	db    *sql.DB
	users *repository.UserRepo
	books *repository.BookRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		Env:          "test",
		JWTSecret:    testSecret,
		JWTIssuer:    testIssuer,
		JWTAudience:  testAudience,
		AccessTTLMin: 120,
		BcryptCost:   4,
	}
	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(db)
	loans := repository.NewLoanRepo(db)
	favorites := repository.NewFavoriteRepo(db, books)

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users),
		Books:   handler.NewBookHandler(books),
		Admin:   handler.NewAdminBookHandler(books),
		Lending: handler.NewLendingHandler(books, loans, favorites),
	}, testSecret, testIssuer, testAudience, nil)

	return &testServer{e: e, db: db, users: users, books: books}
}

// register creates an account through the API and returns its id.
func (s *testServer) register(t *testing.T, email, password string) uint64 {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/auth/register", "",
		`{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.ID
}

// tokenFor mints a valid access token without going through login.
func (s *testServer) tokenFor(t *testing.T, userID uint64, email, role string) string {
	t.Helper()
	at, err := utils.NewAccessToken(testSecret, testIssuer, testAudience, userID, email, role, 120)
	require.NoError(t, err)
	return at.Token
}

// adminToken registers an admin account and returns a token for it.
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	id := s.register(t, "admin@example.com", "admin-pass")
	_, err := s.db.Exec("UPDATE users SET role='Admin' WHERE id=?", id)
	require.NoError(t, err)
	return s.tokenFor(t, id, "admin@example.com", "Admin")
}

// do performs a request against the wired server.  An empty token omits
// the Authorization header.
func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// decodeJSON unmarshals a recorded body into out.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}
