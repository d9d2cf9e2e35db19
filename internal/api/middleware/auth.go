package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set from the token claims.
const (
	KeyUserID      = "user_id"
	KeyRole        = "role"
	KeyCompanyID   = "company_id"
	KeyJobSeekerID = "job_seeker_id"
)

// Auth validates the JWT and injects claims into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			claims, err := parseBearer(authHeader, jwtSecret)
			if err != nil {
				return err
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

// OptionalAuth injects claims when a valid token is present and lets
// anonymous requests through. A malformed or expired token is still rejected.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}
			claims, err := parseBearer(authHeader, jwtSecret)
			if err != nil {
				return err
			}
			setClaims(c, claims)
			return next(c)
		}
	}
}

func parseBearer(authHeader, jwtSecret string) (jwt.MapClaims, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
	}
	return claims, nil
}

func setClaims(c echo.Context, claims jwt.MapClaims) {
	c.Set(KeyUserID, stringClaim(claims, "sub"))
	c.Set(KeyRole, stringClaim(claims, "role"))
	c.Set(KeyCompanyID, stringClaim(claims, "company_id"))
	c.Set(KeyJobSeekerID, stringClaim(claims, "job_seeker_id"))
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
