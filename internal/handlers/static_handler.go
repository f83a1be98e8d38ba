package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// StaticHandler serves the static directory.
// Unpatched, it behaves like a web server pointed at a directory that also holds
// backups and dotfiles: everything is served and directories are listed.
// Fixed, hidden files, the backups directory and directory listings are not found.
type StaticHandler struct {
	BaseHandler
	fs         afero.Fs
	fileServer http.Handler
	fixed      bool
}

// NewStaticHandler creates a static file handler on top of fs
func NewStaticHandler(fs afero.Fs, fixed bool, logger *zap.Logger) *StaticHandler {
	return &StaticHandler{
		BaseHandler: BaseHandler{Logger: logger},
		fs:          fs,
		fileServer:  http.StripPrefix("/static", http.FileServer(afero.NewHttpFs(fs))),
		fixed:       fixed,
	}
}

// RegisterRoutes registers the static file route
func (h *StaticHandler) RegisterRoutes(r chi.Router) {
	r.Get("/static/*", h.ServeStatic)
	r.Head("/static/*", h.ServeStatic)
}

// ServeStatic handles GET /static/*
// @Summary Static files
// @Tags static
// @Produce octet-stream
// @Param path path string true "File path"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Not found"
// @Router /static/{path} [get]
func (h *StaticHandler) ServeStatic(w http.ResponseWriter, r *http.Request) {
	if h.fixed {
		name := path.Clean("/" + strings.TrimPrefix(r.URL.Path, "/static"))
		if isHidden(name) {
			h.RespondError(w, http.StatusNotFound, "not found")
			return
		}
		if isDir, err := afero.IsDir(h.fs, name); err != nil || isDir {
			h.RespondError(w, http.StatusNotFound, "not found")
			return
		}
	}

	h.fileServer.ServeHTTP(w, r)
}

// isHidden reports whether a cleaned slash path names a dotfile, or lies in one, or lies under backups/
func isHidden(name string) bool {
	segments := strings.Split(strings.Trim(name, "/"), "/")
	if len(segments) > 0 && segments[0] == "backups" {
		return true
	}
	for _, segment := range segments {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}
