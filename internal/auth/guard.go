// Package auth decides whether a caller may mutate content.
package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// RoleAdmin is the only role allowed to mutate content
const RoleAdmin = "admin"

// AccessGuard authorizes mutating calls. An empty credential is never authorized.
type AccessGuard interface {
	Authorize(ctx context.Context, credential string) bool
}

// JWTGuard accepts unexpired HS256 tokens signed with the shared secret whose role claim is admin
type JWTGuard struct {
	secret []byte
	logger *zap.Logger
}

// NewJWTGuard creates a guard; a nil logger is replaced with a no-op logger
func NewJWTGuard(secret string, logger *zap.Logger) *JWTGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JWTGuard{secret: []byte(secret), logger: logger}
}

// Claims are the token claims the guard reads
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authorize implements AccessGuard
func (g *JWTGuard) Authorize(ctx context.Context, credential string) bool {
	if credential == "" || len(g.secret) == 0 {
		return false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			g.logger.Debug("Rejected expired credential")
		} else {
			g.logger.Debug("Rejected credential", zap.Error(err))
		}
		return false
	}

	return claims.Role == RoleAdmin
}

// GuardFunc adapts a function to AccessGuard
type GuardFunc func(ctx context.Context, credential string) bool

// Authorize implements AccessGuard
func (f GuardFunc) Authorize(ctx context.Context, credential string) bool {
	return f(ctx, credential)
}
