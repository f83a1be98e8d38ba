package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/securitylessons/backend/internal/auth"
	"github.com/securitylessons/backend/internal/models"
	"github.com/securitylessons/backend/internal/services"
	"github.com/securitylessons/backend/internal/storage"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondError sends an error JSON response
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"error": message})
}

// RespondServiceError maps an error returned by a service to a status code and sends it.
// Unknown errors are logged and reported without details.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var policyErr *services.PasswordPolicyError
	switch {
	case errors.As(err, &policyErr):
		h.RespondJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "password does not meet requirements",
			"validation": policyErr.Result,
		})
	case errors.Is(err, models.ErrInvalidInput):
		h.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		h.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrUnauthenticated):
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongTokenType), errors.Is(err, auth.ErrTokenRevoked):
		h.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, models.ErrForbidden):
		h.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, models.ErrNotFound), errors.Is(err, storage.ErrInvalidKey):
		h.RespondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrUserExists):
		h.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrSecretNotConfigured):
		h.Logger.Error("token signing is not configured", zap.String("path", r.URL.Path))
		h.RespondError(w, http.StatusInternalServerError, "token signing is not configured")
	default:
		h.Logger.Error("request failed", zap.Error(err), zap.String("path", r.URL.Path))
		h.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ParseID reads a positive integer URL parameter. Anything else is reported as not found.
func ParseID(r *http.Request, name string) (int, error) {
	return parsePositive(chi.URLParam(r, name))
}

func parsePositive(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", models.ErrNotFound, value)
	}
	return id, nil
}

// ServeDownload streams an opened stored file as an attachment and closes it
func (h *BaseHandler) ServeDownload(w http.ResponseWriter, r *http.Request, d *services.Download) {
	defer d.File.Close()

	info, err := d.File.Stat()
	if err != nil {
		h.RespondServiceError(w, r, fmt.Errorf("failed to stat download: %w", err))
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Filename}))
	http.ServeContent(w, r, d.Filename, info.ModTime(), d.File)
}
