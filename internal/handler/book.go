// Package handler exposes HTTP handlers for both authenticated and
// public endpoints.  This file defines the unauthenticated catalog
// browsing API: listing, lookup by id and title search.  Responses use
// a sanitized book shape that never includes borrower emails or any
// other user data beyond the holder's id.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"online-library/internal/model"
	"online-library/internal/repository"
)

// BookHandler aggregates the repository needed for public browsing.
type BookHandler struct {
	Books *repository.BookRepo
}

func NewBookHandler(books *repository.BookRepo) *BookHandler {
	return &BookHandler{Books: books}
}

// bookResp is the wire shape of a catalog entry.
type bookResp struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	BorrowerID  *uint64  `json:"borrower_id,omitempty"`
	Authors     []string `json:"authors"`
	Genres      []string `json:"genres"`
}

func toBookResp(b model.Book) bookResp {
	return bookResp{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		BorrowerID:  b.BorrowerID,
		Authors:     b.Authors,
		Genres:      b.Genres,
	}
}

func toBookResps(books []model.Book) []bookResp {
	out := make([]bookResp, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResp(b))
	}
	return out
}

// List handles GET /v1/books: every book with relations resolved, no
// pagination.
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.Books.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toBookResps(books))
}

// Get handles GET /v1/books/:id.
func (h *BookHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid book id"})
	}
	book, err := h.Books.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toBookResp(book))
}

// Search handles GET /v1/books/search?title=.  A blank filter returns
// the whole catalog.
func (h *BookHandler) Search(c echo.Context) error {
	books, err := h.Books.Search(c.Request().Context(), c.QueryParam("title"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toBookResps(books))
}
