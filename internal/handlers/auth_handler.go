package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/securitylessons/backend/internal/middleware"
	"github.com/securitylessons/backend/internal/models"
	"go.uber.org/zap"
)

const refreshTokenCookie = "refresh_token"

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register validates the credentials and creates a user without roles.
	//
	// If the password policy rejects the password, *services.PasswordPolicyError will be returned.
	// If the username is taken, models.ErrUserExists will be returned.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	// Method Login verifies the credentials and returns a new token pair.
	//
	// If the credentials are wrong, models.ErrInvalidCredentials will be returned together with "nil" value.
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenPair, error)
	// Method Refresh rotates a refresh token and returns a new token pair.
	//
	// If the token is invalid, expired or revoked, the error will be returned together with "nil" value.
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	// Method Logout revokes every non-empty token given.
	Logout(ctx context.Context, tokens ...string) error
	// Method Introspect describes a token; revoked tokens are reported as inactive with their claims.
	Introspect(ctx context.Context, token string) *models.Introspection
	// Method Me returns the user behind the principal.
	Me(ctx context.Context, p *models.Principal) (*models.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
	verifier    middleware.AccessVerifier
	// loginLimit is the number of login attempts allowed per IP and minute, 0 disables the limit
	loginLimit int
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, verifier middleware.AccessVerifier, loginLimit int, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
		verifier:    verifier,
		loginLimit:  loginLimit,
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		if h.loginLimit > 0 {
			r.With(httprate.LimitByIP(h.loginLimit, time.Minute)).Post("/login", h.Login)
		} else {
			r.Post("/login", h.Login)
		}
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
		r.Post("/introspect", h.Introspect)
		r.With(middleware.Auth(h.verifier)).Get("/me", h.Me)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Register a user without roles. In fixed mode the password policy is enforced and rejected passwords are reported with their validation codes.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register request"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]any "Invalid request body or weak password"
// @Failure 409 {object} map[string]string "User already exists"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with username and password. Tokens are returned in the body and as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {string} string "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.setTokenCookies(w, pair)
	h.RespondJSON(w, http.StatusOK, pair)
}

// Refresh handles POST /auth/refresh
// @Summary Refresh tokens
// @Description Rotate a refresh token. The presented token is revoked. Token can be provided in request body or as a cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.TokenRequest false "Refresh token (optional if using cookie)"
// @Success 200 {object} models.TokenPair
// @Failure 401 {object} map[string]string "Invalid, expired or revoked token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.bodyOrCookieToken(r, refreshTokenCookie)

	pair, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.setTokenCookies(w, pair)
	h.RespondJSON(w, http.StatusOK, pair)
}

// Logout handles POST /auth/logout
// @Summary Logout user
// @Description Revoke the access token of the request and the refresh token from the body or cookie, then clear the cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.TokenRequest false "Refresh token (optional if using cookie)"
// @Success 200 {object} map[string]string "Logged out"
// @Failure 401 {object} map[string]string "Invalid token"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken := middleware.ExtractToken(r)
	refreshToken := h.bodyOrCookieToken(r, refreshTokenCookie)

	if accessToken == "" && refreshToken == "" {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.authService.Logout(r.Context(), accessToken, refreshToken); err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.clearTokenCookies(w)
	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Introspect handles POST /auth/introspect
// @Summary Introspect a token
// @Description Report whether a token is active. Invalid, expired and revoked tokens are reported as inactive.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.TokenRequest true "Token to introspect"
// @Success 200 {object} models.Introspection
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /auth/introspect [post]
func (h *AuthHandler) Introspect(w http.ResponseWriter, r *http.Request) {
	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.RespondJSON(w, http.StatusOK, h.authService.Introspect(r.Context(), req.Token))
}

// Me handles GET /auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "Authentication required"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// bodyOrCookieToken reads {"token": ...} from the body, falling back to the named cookie
func (h *AuthHandler) bodyOrCookieToken(r *http.Request, cookieName string) string {
	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Token != "" {
		return req.Token
	}

	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// setTokenCookies sets access and refresh tokens as HTTP-only cookies
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, pair *models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(pair.ExpiresIn),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/auth",
		MaxAge:   604800, // 7 days
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	for name, path := range map[string]string{middleware.AccessTokenCookie: "/", refreshTokenCookie: "/auth"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
