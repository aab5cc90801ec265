package http

import (
	"errors"
	"net/http"
	"strings"

	"dispatch/internal/core/domain/model/kernel"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// OperatorRole marks marketplace staff. Operators confirm orders, cancel
// on behalf of customers, and verify couriers.
const OperatorRole = "operator"

// identityContextKey is where BearerAuth stores the caller on the echo context.
const identityContextKey = "identity"

// Identity represents the authenticated caller extracted from the JWT.
type Identity struct {
	UserID kernel.UUID
	Role   string
}

// IsOperator reports whether the caller holds the operator role.
func (i Identity) IsOperator() bool {
	return i.Role == OperatorRole
}

// BearerAuth returns echo middleware that validates a Bearer JWT signed
// with the given HS256 secret and exposes the caller as an Identity.
// Requests without a valid token are rejected with 401.
func BearerAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			identity, err := parseBearer(ctx.Request().Header.Get("Authorization"), secret)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "invalid or missing credentials",
				})
			}

			ctx.Set(identityContextKey, identity)
			return next(ctx)
		}
	}
}

// callerIdentity retrieves the Identity stored by BearerAuth.
func callerIdentity(ctx echo.Context) (Identity, bool) {
	identity, ok := ctx.Get(identityContextKey).(Identity)
	return identity, ok
}

// parseBearer validates the Authorization header and extracts the caller.
func parseBearer(header, secret string) (Identity, error) {
	if secret == "" {
		return Identity{}, errors.New("jwt secret is empty")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Identity{}, errors.New("invalid authorization header")
	}

	type claims struct {
		Role string `json:"role"`
		jwt.RegisteredClaims
	}

	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), &claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return Identity{}, err
	}

	parsed, _ := token.Claims.(*claims)
	if parsed == nil || parsed.Subject == "" {
		return Identity{}, errors.New("invalid claims")
	}

	userID, err := kernel.UUIDFromString(parsed.Subject)
	if err != nil {
		return Identity{}, err
	}

	return Identity{UserID: userID, Role: strings.ToLower(parsed.Role)}, nil
}
