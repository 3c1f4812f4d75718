package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
	"github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// identityKey is the context key under which JWTAuth stores the
// verified Identity.
const identityKey = "identity"

// Identity is the caller's verified claims, produced exactly once per
// request by JWTAuth.  Handlers must take the acting user id from here
// and never from a request body or path parameter.
type Identity struct {
	UserID uint64
	Email  string
	Role   string
}

// IdentityFrom returns the Identity stored by JWTAuth.  The boolean is
// false on routes where the middleware did not run.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the verified Identity into the request context.
// Beyond the signature, the token's issuer and audience must match the
// values the service signs with, and expiry is enforced by the parser.
// Any failure is a 401; downstream handlers never see an unverified
// request.
func JWTAuth(secret, issuer, audience string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 pinned; a token signed with any other
			// method is rejected before the claims are looked at.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			},
				jwt.WithIssuer(issuer),
				jwt.WithAudience(audience),
				jwt.WithExpirationRequired(),
			)
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			id := Identity{}
			// Numeric JSON claims decode as float64.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			id.UserID = uint64(sub)
			id.Email, _ = claims["email"].(string)
			id.Role, _ = claims["role"].(string)
			if id.Role == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}
