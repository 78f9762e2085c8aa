package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/paysplit/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// AdminIDKey is the context key for storing the authenticated admin ID.
	AdminIDKey contextKey = "admin_id"
	// UsernameKey is the context key for storing the authenticated admin's username.
	UsernameKey contextKey = "username"
)

// SessionCookie holds the admin session token in the browser.
const SessionCookie = "paysplit_session"

// GetAdminID extracts the admin ID from the context.
// Returns empty string if not found.
func GetAdminID(ctx context.Context) string {
	id, _ := ctx.Value(AdminIDKey).(string)
	return id
}

// GetUsername extracts the admin username from the context.
// Returns empty string if not found.
func GetUsername(ctx context.Context) string {
	name, _ := ctx.Value(UsernameKey).(string)
	return name
}

// WithClaims returns ctx carrying the admin identity from claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, AdminIDKey, claims.AdminID)
	return context.WithValue(ctx, UsernameKey, claims.Username)
}

// bearerToken parses an "Authorization: Bearer <token>" header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth returns a Connect interceptor that validates bearer tokens and
// adds the admin identity to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token, err := bearerToken(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithClaims(ctx, claims), req)
		}
	}
}

// RequireAdmin guards browser routes. The session comes from the session
// cookie or a bearer token. Unauthenticated GET requests are redirected to
// loginPath with a destination parameter; other methods get 401.
func RequireAdmin(jwtManager *auth.JWTManager, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var candidates []string
			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				candidates = append(candidates, c.Value)
			}
			if t, err := bearerToken(r.Header.Get("Authorization")); err == nil {
				candidates = append(candidates, t)
			}

			// A stale cookie falls through to the bearer token.
			for _, token := range candidates {
				if claims, err := jwtManager.Validate(token); err == nil {
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
			}

			if r.Method == http.MethodGet {
				dest := url.Values{"destination": {r.URL.RequestURI()}}
				http.Redirect(w, r, loginPath+"?"+dest.Encode(), http.StatusSeeOther)
				return
			}
			http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
		})
	}
}
