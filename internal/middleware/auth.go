package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/securitylessons/backend/internal/models"
)

const principalKey contextKey = "principal"

// AccessTokenCookie is the cookie the login endpoint stores the access token in
const AccessTokenCookie = "access_token"

// AccessVerifier is the interface that wraps access token verification
type AccessVerifier interface {
	// Method VerifyAccess validates an access token and returns its principal.
	//
	// Malformed, expired and revoked tokens produce an error.
	VerifyAccess(ctx context.Context, token string) (*models.Principal, error)
}

// Auth validates the access token and rejects the request with 401 when it is missing or invalid
func Auth(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			principal, err := verifier.VerifyAccess(r.Context(), token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// OptionalAuth stores the principal of a valid access token in the context
// and lets anonymous requests and requests with invalid tokens through.
// Handlers decide themselves what an anonymous caller may see.
func OptionalAuth(verifier AccessVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				if principal, err := verifier.VerifyAccess(r.Context(), token); err == nil {
					r = r.WithContext(WithPrincipal(r.Context(), principal))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles lets through principals holding at least one of roles.
// It must run after Auth or OptionalAuth.
func RequireRoles(roles models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())
			if principal == nil {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !principal.Roles.Has(roles) {
				writeJSONError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken returns the bearer token of the Authorization header, falling back to the access token cookie
func ExtractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// WithPrincipal returns a copy of ctx carrying the principal
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal retrieves the authenticated principal from context, nil for anonymous requests
func GetPrincipal(ctx context.Context) *models.Principal {
	p, _ := ctx.Value(principalKey).(*models.Principal)
	return p
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
