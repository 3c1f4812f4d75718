package handler

// Lending and favorites: the operations available to any logged-in
// user.  The acting user id always comes from the verified token
// identity placed in context by the JWT middleware, never from the
// request body or path.

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"online-library/internal/middleware"
	"online-library/internal/queue"
	"online-library/internal/repository"
	"online-library/internal/service"
)

// LendingHandler bundles the repositories for borrowing and favorites.
type LendingHandler struct {
	Books     *repository.BookRepo
	Loans     *repository.LoanRepo
	Favorites *repository.FavoriteRepo
}

func NewLendingHandler(books *repository.BookRepo, loans *repository.LoanRepo, favs *repository.FavoriteRepo) *LendingHandler {
	return &LendingHandler{Books: books, Loans: loans, Favorites: favs}
}

// Take handles POST /v1/books/take/:id.  The single-holder rule is
// enforced by the loan repository's compare-and-swap; a book that
// already has a holder, the caller included, is a conflict.  On
// success a lending event is published best-effort.
func (h *LendingHandler) Take(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid book id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Loans.Borrow(ctx, bookID, id.UserID); err != nil {
		switch err {
		case repository.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		case repository.ErrBookTaken:
			return c.JSON(http.StatusConflict, echo.Map{"error": "book already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "borrow failed"})
	}

	book, err := h.Books.GetByID(ctx, bookID)
	if err != nil {
		// The borrow already happened; report success with what we have.
		return c.JSON(http.StatusOK, echo.Map{"book_id": bookID})
	}
	_ = service.PublishBookBorrowed(ctx, queue.BookBorrowedEvent{
		BookID:     book.ID,
		BookTitle:  book.Title,
		UserID:     id.UserID,
		BorrowedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, toBookResp(book))
}

// AddFavorite handles POST /v1/books/favorites/:id.
func (h *LendingHandler) AddFavorite(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid book id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Favorites.Add(ctx, id.UserID, bookID); err != nil {
		switch err {
		case repository.ErrUserNotFound, repository.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user or book not found"})
		case repository.ErrAlreadyFavorite:
			return c.JSON(http.StatusConflict, echo.Map{"error": "book already in favorites"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add favorite failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"book_id": bookID})
}

// RemoveFavorite handles DELETE /v1/books/favorites/:id.  A pair that
// was never added and a missing user report the same 404.
func (h *LendingHandler) RemoveFavorite(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid book id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Favorites.Remove(ctx, id.UserID, bookID); err != nil {
		switch err {
		case repository.ErrUserNotFound, repository.ErrNotFavorite:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not in favorites"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove favorite failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"book_id": bookID})
}

// ListFavorites handles GET /v1/books/favorites.
func (h *LendingHandler) ListFavorites(c echo.Context) error {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	books, err := h.Favorites.ListByUser(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toBookResps(books))
}
