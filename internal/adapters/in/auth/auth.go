// Package auth verifies the HS256 bearer tokens issued by the identity
// service and resolves the caller's role on echo requests.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"delivery/internal/generated/servers"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	RoleAdmin   = "admin"
	RoleCourier = "courier"
	RoleService = "service"

	principalKey = "principal"
)

var (
	ErrTokenIsRequired = errors.New("token is required")
	ErrTokenIsInvalid  = errors.New("token is invalid")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller. For couriers Subject is the courier
// ID.
type Principal struct {
	Subject string
	Role    string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

func (v *Verifier) Verify(tokenStr string) (Principal, error) {
	if tokenStr == "" {
		return Principal{}, ErrTokenIsRequired
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Principal{}, fmt.Errorf("%w: %w", ErrTokenIsInvalid, err)
	}
	if claims.Subject == "" || claims.Role == "" {
		return Principal{}, fmt.Errorf("%w: sub and role are required", ErrTokenIsInvalid)
	}

	return Principal{Subject: claims.Subject, Role: claims.Role}, nil
}

// Issue signs a token. The dispatcher never issues tokens to users; this is
// used by tests and local tooling.
func (v *Verifier) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Middleware rejects requests without a valid bearer token and stores the
// principal on the echo context.
func Middleware(v *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return unauthorized(c, "Authorization header required (Bearer <token>)")
			}

			principal, err := v.Verify(strings.TrimSpace(tokenStr))
			if err != nil {
				return unauthorized(c, "Invalid or expired token")
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// Authorize returns the caller and whether it holds one of roles. Requests that
// did not pass Middleware have no caller.
func Authorize(c echo.Context, roles ...string) (Principal, bool) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		return Principal{}, false
	}
	return principal, slices.Contains(roles, principal.Role)
}

func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, servers.Error{Code: http.StatusUnauthorized, Message: msg})
}
