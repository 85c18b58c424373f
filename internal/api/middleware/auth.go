package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// ActorKey is the context key for the authenticated subject
	ActorKey ContextKey = "actor"
	// RoleKey is the context key for the subject's role
	RoleKey ContextKey = "role"
)

// Claims are the JWT claims issued by the platform's identity service.
type Claims struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// ParseClaims validates a token string against the shared secret.
func ParseClaims(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		claims.Subject = claims.RegisteredClaims.Subject
	}
	return claims, nil
}

// AuthMiddleware returns a middleware that validates bearer tokens
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					tokenStr = parts[1]
				}
			}

			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
				return
			}

			claims, err := ParseClaims(tokenStr, jwtSecret)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), ActorKey, claims.Subject)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor extracts the authenticated subject from the request context
func GetActor(r *http.Request) string {
	if actor, ok := r.Context().Value(ActorKey).(string); ok {
		return actor
	}
	return ""
}

// GetRole extracts the subject's role from the request context
func GetRole(r *http.Request) string {
	if role, ok := r.Context().Value(RoleKey).(string); ok {
		return role
	}
	return ""
}
