package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
	"github.com/securitylessons/backend/internal/lessons"
	"github.com/securitylessons/backend/internal/middleware"
	"github.com/securitylessons/backend/internal/models"
	"github.com/securitylessons/backend/internal/services"
	"go.uber.org/zap"
)

// PortalService is the interface that wraps methods for the force browsing portals business logic.
type PortalService interface {
	// Method Index describes the portal and the links shown to the principal.
	Index(ctx context.Context, p *models.Principal, portal *lessons.Portal) map[string]any
	// Method Maintenance returns the forgotten legacy admin console.
	Maintenance(ctx context.Context, p *models.Principal, portal *lessons.Portal) (map[string]any, error)
	// Method StagingDebug returns the left over staging configuration dump.
	//
	// Once fixed, models.ErrNotFound will be returned.
	StagingDebug(ctx context.Context, portal *lessons.Portal) (map[string]any, error)
	// Method Crash panics, simulating an unhandled error.
	Crash(portal *lessons.Portal)
	// Method RecordView returns the unlinked JSON view of a record.
	RecordView(ctx context.Context, p *models.Principal, portal *lessons.Portal, id int) (*models.RecordView, error)
	// Method DownloadVuln opens an attachment through the direct storage path.
	DownloadVuln(ctx context.Context, p *models.Principal, portal *lessons.Portal, attachmentID int) (*services.Download, error)
	// Method ExportUser exports a user profile.
	ExportUser(ctx context.Context, p *models.Principal, userID int) (*models.UserExport, error)
	// Method DownloadByToken resolves a download token.
	//
	// Unknown tokens are reported as models.ErrNotFound.
	DownloadByToken(ctx context.Context, portal *lessons.Portal, token string) (*services.Download, error)
	// Method DownloadShared resolves a share link.
	DownloadShared(ctx context.Context, portal *lessons.Portal, token string) (*services.Download, error)
	// Method ListRecords lists the records visible to the principal in the role gated area.
	ListRecords(ctx context.Context, p *models.Principal, portal *lessons.Portal) ([]*models.Resource, error)
	// Method RecordDetail returns a record of the role gated area.
	RecordDetail(ctx context.Context, p *models.Principal, portal *lessons.Portal, id int) (*models.RecordView, error)
	// Method DownloadDocument opens an attachment of the role gated area.
	DownloadDocument(ctx context.Context, p *models.Principal, portal *lessons.Portal, attachmentID int) (*services.Download, error)
	// Method ShareDocument creates a short lived download link for an attachment.
	ShareDocument(ctx context.Context, p *models.Principal, portal *lessons.Portal, attachmentID int) (*models.ShareLink, error)
	// Method AdminDashboard returns the hidden admin dashboard.
	AdminDashboard(ctx context.Context, p *models.Principal, portal *lessons.Portal) (map[string]any, error)
}

// PortalHandler serves the force browsing portals under /portal/<portal>
type PortalHandler struct {
	BaseHandler
	portalService PortalService
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(portalService PortalService, logger *zap.Logger) *PortalHandler {
	return &PortalHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		portalService: portalService,
	}
}

// RegisterRoutes registers the routes of every portal.
// Hidden endpoints are registered next to the linked ones; only the service decides who gets through.
func (h *PortalHandler) RegisterRoutes(r chi.Router) {
	r.Route("/portal", func(r chi.Router) {
		r.Use(chimiddleware.StripSlashes)

		for _, portal := range lessons.Portals() {
			r.Route("/"+portal.Name, func(r chi.Router) {
				r.Get("/", h.index(portal))

				// hidden and unlinked endpoints
				r.Get("/old/admin/maintenance", h.maintenance(portal))
				r.Get("/staging/debug", h.stagingDebug(portal))
				r.Get("/crash", h.crash(portal))
				r.Get("/"+portal.Records+"/{id}", h.recordView(portal))
				r.Get("/storage/"+portal.Documents+"/{id}/download", h.downloadVuln(portal))
				r.Get("/api/users/{id}/export", h.exportUser(portal))
				r.Get("/download", h.downloadByToken(portal))
				r.Get("/ui/admin/dashboard", h.adminDashboard(portal))

				// role gated area
				r.Group(func(r chi.Router) {
					if roles := portal.StaffRoles(); roles != models.RoleNone {
						r.Use(middleware.RequireRoles(roles))
					}
					r.Get("/"+portal.Area+"/"+portal.Records, h.listRecords(portal))
					r.Get("/"+portal.Area+"/"+portal.Records+"/{id}", h.recordDetail(portal))
					r.Get("/files/{id}/download", h.downloadDocument(portal))
					r.Post("/files/{id}/share", h.shareDocument(portal))
				})
				r.Get("/shared", h.downloadShared(portal))
			})
		}
	})
}

// index handles GET /portal/{portal}/
// @Summary Portal home
// @Tags portal
// @Produce json
// @Param portal path string true "Portal name" Enums(hr, lms, fintech, supply, shop)
// @Success 200 {object} map[string]any
// @Router /portal/{portal}/ [get]
func (h *PortalHandler) index(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.RespondJSON(w, http.StatusOK, h.portalService.Index(r.Context(), middleware.GetPrincipal(r.Context()), portal))
	}
}

// maintenance handles GET /portal/{portal}/old/admin/maintenance/
// @Summary Legacy admin console (hidden)
// @Tags portal
// @Produce json
// @Param portal path string true "Portal name"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string "Authentication required (fixed mode)"
// @Failure 403 {object} map[string]string "Admin only (fixed mode)"
// @Router /portal/{portal}/old/admin/maintenance/ [get]
func (h *PortalHandler) maintenance(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.portalService.Maintenance(r.Context(), middleware.GetPrincipal(r.Context()), portal)
		h.respond(w, r, result, err)
	}
}

// stagingDebug handles GET /portal/{portal}/staging/debug/
// @Summary Staging configuration dump (hidden)
// @Tags portal
// @Produce json
// @Param portal path string true "Portal name"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string "Removed (fixed mode)"
// @Router /portal/{portal}/staging/debug/ [get]
func (h *PortalHandler) stagingDebug(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.portalService.StagingDebug(r.Context(), portal)
		h.respond(w, r, result, err)
	}
}

// crash handles GET /portal/{portal}/crash/
// @Summary Unhandled error
// @Description Always fails with 500. With DEBUG on, the error page leaks the panic message and the stack trace.
// @Tags portal
// @Produce json
// @Param portal path string true "Portal name"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /portal/{portal}/crash/ [get]
func (h *PortalHandler) crash(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.portalService.Crash(portal)
	}
}

// recordView handles GET /portal/{portal}/{records}/{id}/
// @Summary Unlinked record JSON view
// @Tags portal
// @Produce json
// @Param portal path string true "Portal name"
// @Param records path string true "Record collection (candidates, assignments, accounts, items, orders)"
// @Param id path int true "Record ID"
// @Success 200 {object} models.RecordView
// @Failure 404 {object} map[string]string "Not found"
// @Router /portal/{portal}/{records}/{id}/ [get]
func (h *PortalHandler) recordView(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		view, err := h.portalService.RecordView(r.Context(), middleware.GetPrincipal(r.Context()), portal, id)
		h.respond(w, r, view, err)
	}
}

// downloadVuln handles GET /portal/{portal}/storage/{documents}/{id}/download/
// @Summary Direct storage download
// @Tags portal
// @Produce octet-stream
// @Param portal path string true "Portal name"
// @Param documents path string true "Document collection (resumes, submissions, statements, shipments, invoices)"
// @Param id path int true "Attachment ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Not found"
// @Router /portal/{portal}/storage/{documents}/{id}/download/ [get]
func (h *PortalHandler) downloadVuln(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		d, err := h.portalService.DownloadVuln(r.Context(), middleware.GetPrincipal(r.Context()), portal, id)
		h.download(w, r, d, err)
	}
}

// exportUser handles GET /portal/{portal}/api/users/{id}/export/
// @Summary Export a user profile
// @Tags portal
// @Produce json
// @Param portal path string true "Portal name"
// @Param id path int true "User ID"
// @Success 200 {object} models.UserExport
// @Failure 404 {object} map[string]string "Not found"
// @Router /portal/{portal}/api/users/{id}/export/ [get]
func (h *PortalHandler) exportUser(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		export, err := h.portalService.ExportUser(r.Context(), middleware.GetPrincipal(r.Context()), id)
		h.respond(w, r, export, err)
	}
}

// downloadByToken handles GET /portal/{portal}/download/?token=
// @Summary Download by token
// @Description Resolves guessable tokens (vulnerable mode) and share links.
// @Tags portal
// @Produce octet-stream
// @Param portal path string true "Portal name"
// @Param token query string true "Download token"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Unknown token"
// @Router /portal/{portal}/download/ [get]
func (h *PortalHandler) downloadByToken(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.portalService.DownloadByToken(r.Context(), portal, r.URL.Query().Get("token"))
		h.download(w, r, d, err)
	}
}

// adminDashboard handles GET /portal/{portal}/ui/admin/dashboard/
// @Summary Hidden admin dashboard
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param portal path string true "Portal name"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Admin only (fixed mode)"
// @Router /portal/{portal}/ui/admin/dashboard/ [get]
func (h *PortalHandler) adminDashboard(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.portalService.AdminDashboard(r.Context(), middleware.GetPrincipal(r.Context()), portal)
		h.respond(w, r, result, err)
	}
}

// listRecords handles GET /portal/{portal}/{area}/{records}/
// @Summary List records of the role gated area
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param portal path string true "Portal name"
// @Param area path string true "Area (hr, courses, banking, warehouse, account)"
// @Param records path string true "Record collection"
// @Success 200 {array} models.Resource
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Missing role"
// @Router /portal/{portal}/{area}/{records}/ [get]
func (h *PortalHandler) listRecords(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.portalService.ListRecords(r.Context(), middleware.GetPrincipal(r.Context()), portal)
		h.respond(w, r, records, err)
	}
}

// recordDetail handles GET /portal/{portal}/{area}/{records}/{id}/
// @Summary Record of the role gated area
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param portal path string true "Portal name"
// @Param area path string true "Area"
// @Param records path string true "Record collection"
// @Param id path int true "Record ID"
// @Success 200 {object} models.RecordView
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /portal/{portal}/{area}/{records}/{id}/ [get]
func (h *PortalHandler) recordDetail(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		view, err := h.portalService.RecordDetail(r.Context(), middleware.GetPrincipal(r.Context()), portal, id)
		h.respond(w, r, view, err)
	}
}

// downloadDocument handles GET /portal/{portal}/files/{id}/download/
// @Summary Download a document
// @Tags portal
// @Produce octet-stream
// @Security BearerAuth
// @Param portal path string true "Portal name"
// @Param id path int true "Attachment ID"
// @Success 200 {file} file
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /portal/{portal}/files/{id}/download/ [get]
func (h *PortalHandler) downloadDocument(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		d, err := h.portalService.DownloadDocument(r.Context(), middleware.GetPrincipal(r.Context()), portal, id)
		h.download(w, r, d, err)
	}
}

// shareDocument handles POST /portal/{portal}/files/{id}/share/
// @Summary Create a share link
// @Tags portal
// @Produce json
// @Security BearerAuth
// @Param portal path string true "Portal name"
// @Param id path int true "Attachment ID"
// @Success 201 {object} models.ShareLink
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /portal/{portal}/files/{id}/share/ [post]
func (h *PortalHandler) shareDocument(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		link, err := h.portalService.ShareDocument(r.Context(), middleware.GetPrincipal(r.Context()), portal, id)
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		h.RespondJSON(w, http.StatusCreated, link)
	}
}

// downloadShared handles GET /portal/{portal}/shared/?token=
// @Summary Download through a share link
// @Tags portal
// @Produce octet-stream
// @Param portal path string true "Portal name"
// @Param token query string true "Share token"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Unknown or expired link"
// @Router /portal/{portal}/shared/ [get]
func (h *PortalHandler) downloadShared(portal *lessons.Portal) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.portalService.DownloadShared(r.Context(), portal, r.URL.Query().Get("token"))
		h.download(w, r, d, err)
	}
}

func (h *PortalHandler) respond(w http.ResponseWriter, r *http.Request, data any, err error) {
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, data)
}

func (h *PortalHandler) download(w http.ResponseWriter, r *http.Request, d *services.Download, err error) {
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}
	h.ServeDownload(w, r, d)
}

// PortalNames returns the names of the portals, used by the API index
func PortalNames() []string {
	return lo.Map(lessons.Portals(), func(p *lessons.Portal, _ int) string { return p.Name })
}
