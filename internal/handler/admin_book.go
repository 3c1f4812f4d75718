package handler

// Admin-only catalog mutation: adding and deleting books and the CSV
// export.  Routes using these handlers are wrapped in
// middleware.RequireRole("Admin"); the handlers themselves assume the
// role check already happened.

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"online-library/internal/export"
	"online-library/internal/repository"
)

// AdminBookHandler bundles dependencies for catalog mutation.
type AdminBookHandler struct {
	Books *repository.BookRepo
}

func NewAdminBookHandler(books *repository.BookRepo) *AdminBookHandler {
	return &AdminBookHandler{Books: books}
}

type createBookReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Authors     []string `json:"authors"`
	Genres      []string `json:"genres"`
}

// Create handles POST /v1/books.  Author and genre names are reused by
// exact match and created otherwise; the response is the created book
// with relations resolved.
func (h *AdminBookHandler) Create(c echo.Context) error {
	var req createBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	book, err := h.Books.Create(ctx, req.Title, req.Description, req.Authors, req.Genres)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create book failed"})
	}
	return c.JSON(http.StatusCreated, toBookResp(book))
}

// Delete handles DELETE /v1/books/:id.  Relation rows (authorship,
// genre tags, favorites) go with the book.
func (h *AdminBookHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid book id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Books.Delete(ctx, id); err != nil {
		if err == repository.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete book failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": id})
}

// ExportCSV handles GET /v1/books/export/csv, streaming the whole
// catalog as a UTF-8 CSV attachment.
func (h *AdminBookHandler) ExportCSV(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	books, err := h.Books.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	name := fmt.Sprintf("books_%s.csv", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", export.Books(books))
}
