package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"online-library/internal/handler"    // handlers that implement business logic
	"online-library/internal/middleware" // middleware for JWT authentication and role enforcement
	"online-library/internal/model"      // role names for the admin gate
)

// Handlers groups everything the router wires up.  The rate limiter is
// optional; a nil middleware leaves the auth group unlimited.
type Handlers struct {
	Auth    *handler.AuthHandler
	Books   *handler.BookHandler
	Admin   *handler.AdminBookHandler
	Lending *handler.LendingHandler
}

// Register registers every route of the service on the provided Echo
// instance.  Three tiers exist: unauthenticated (health, auth, catalog
// browsing), any logged-in user (lending and favorites) and Admin
// (catalog mutation and export).
func Register(e *echo.Echo, h Handlers, jwtSecret, jwtIssuer, jwtAudience string, rateLimit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Register and login never require a token; they are the routes the
	// rate limiter protects against brute force.
	auth := e.Group("/v1/auth")
	if rateLimit != nil {
		auth.Use(rateLimit)
	}
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	// Public catalog browsing.  The specific /search and /favorites
	// paths are registered before the :id param route so Echo does not
	// swallow them as ids.
	e.GET("/v1/books", h.Books.List)
	e.GET("/v1/books/search", h.Books.Search)
	e.GET("/v1/books/:id", h.Books.Get)

	jwtAuth := middleware.JWTAuth(jwtSecret, jwtIssuer, jwtAudience)

	// Lending and favorites: any authenticated user.
	user := e.Group("/v1/books")
	user.Use(jwtAuth)
	user.POST("/take/:id", h.Lending.Take)
	user.GET("/favorites", h.Lending.ListFavorites)
	user.POST("/favorites/:id", h.Lending.AddFavorite)
	user.DELETE("/favorites/:id", h.Lending.RemoveFavorite)

	// Catalog mutation and export: Admin only.
	admin := e.Group("/v1/books")
	admin.Use(jwtAuth, middleware.RequireRole(model.RoleAdmin))
	admin.POST("", h.Admin.Create)
	admin.DELETE("/:id", h.Admin.Delete)
	admin.GET("/export/csv", h.Admin.ExportCSV)
}
