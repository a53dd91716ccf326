package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/square/go-jose.v2/jwt"
)

type contextKey string

const (
	callerIDKey contextKey = "callerID"
	rolesKey    contextKey = "roles"
)

// ExtractCaller reads the caller identity from the bearer token and puts
// it on the request context. The token is issued and verified by the
// gateway; its claims are consumed here as opaque input.
func ExtractCaller(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parseToken(token)
			if err != nil {
				logger.Warn("failed to parse the auth token: " + err.Error())
				next.ServeHTTP(w, r)
				return
			}

			newCtx := r.Context()
			if caller, ok := claims["sub"].(string); ok {
				newCtx = context.WithValue(newCtx, callerIDKey, caller)
			}
			if roles, ok := claims["roles"]; ok {
				newCtx = context.WithValue(newCtx, rolesKey, roles)
			}

			next.ServeHTTP(w, r.WithContext(newCtx))
		})
	}
}

// CallerID returns the caller identity stored by ExtractCaller, empty
// when the request carried no parseable token.
func CallerID(ctx context.Context) string {
	caller, _ := ctx.Value(callerIDKey).(string)
	return caller
}

func parseToken(tokenString string) (map[string]interface{}, error) {

	var claims map[string]interface{}

	token, err := jwt.ParseSigned(tokenString)
	if err != nil {
		return nil, err
	}

	if err := token.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return nil, err
	}

	return claims, nil
}
