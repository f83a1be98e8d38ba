package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
	"github.com/securitylessons/backend/internal/lessons"
	"github.com/securitylessons/backend/internal/middleware"
	"github.com/securitylessons/backend/internal/models"
	"go.uber.org/zap"
)

// OwnerIDHeader is the client supplied ownership claim read by the profiles lesson
const OwnerIDHeader = "X-Owner-ID"

// ResourceService is the interface that wraps methods for the IDOR lessons business logic.
type ResourceService interface {
	// Method ListMine returns the resources of a kind owned by the principal.
	//
	// If the principal is nil, models.ErrUnauthenticated will be returned.
	ListMine(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string) ([]*models.Resource, error)
	// Method GetSecure returns a resource after checking the lesson policy against the session identity.
	//
	// models.ErrUnauthenticated, models.ErrForbidden or models.ErrNotFound will be returned together with "nil" value when the check fails.
	GetSecure(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string, id int) (*models.Resource, error)
	// Method GetVuln returns a resource applying only the check of the unpatched lesson.
	//
	// "claimedOwner" parameter is the owner id supplied by the client, nil when absent.
	GetVuln(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string, id int, claimedOwner *int) (*models.Resource, error)
	// Method UpdateVuln renames a resource applying only the check of the unpatched lesson.
	UpdateVuln(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string, id int, req *models.UpdateResourceRequest) (*models.Resource, error)
	// Method UpdateSecure renames a resource after checking the lesson policy against the session identity.
	UpdateSecure(ctx context.Context, p *models.Principal, lesson *lessons.Lesson, kind string, id int, req *models.UpdateResourceRequest) (*models.Resource, error)
}

// IDORHandler serves the IDOR lessons.
// Every lesson kind gets the same set of routes:
//
//	secure/<kind>/list/
//	secure/<kind>/<id>/
//	secure/<kind>/update/<id>/
//	vuln/<kind>/?id=<id>
//	vuln/<kind>/path/<id>/
//	vuln/<kind>/update/<id>/
type IDORHandler struct {
	BaseHandler
	resourceService ResourceService
}

// NewIDORHandler creates a new IDOR lessons handler
func NewIDORHandler(resourceService ResourceService, logger *zap.Logger) *IDORHandler {
	return &IDORHandler{
		BaseHandler:     BaseHandler{Logger: logger},
		resourceService: resourceService,
	}
}

// RegisterRoutes registers the routes of every IDOR lesson under /idor/<lesson>
func (h *IDORHandler) RegisterRoutes(r chi.Router) {
	r.Route("/idor", func(r chi.Router) {
		r.Use(chimiddleware.StripSlashes)
		r.Get("/", h.ListLessons)

		for _, lesson := range lessons.Lessons() {
			r.Route("/"+lesson.Name, func(r chi.Router) {
				r.Get("/", h.lessonIndex(lesson))
				for _, kind := range lesson.Kinds {
					r.Get("/secure/"+kind.Name+"/list", h.listMine(lesson, kind))
					r.Get("/secure/"+kind.Name+"/{id}", h.getSecure(lesson, kind))
					r.Post("/secure/"+kind.Name+"/update/{id}", h.updateSecure(lesson, kind))
					r.Get("/vuln/"+kind.Name, h.getVulnQuery(lesson, kind))
					r.Get("/vuln/"+kind.Name+"/path/{id}", h.getVulnPath(lesson, kind))
					r.Post("/vuln/"+kind.Name+"/update/{id}", h.updateVuln(lesson, kind))
				}
			})
		}
	})
}

// ListLessons handles GET /idor/
// @Summary List IDOR lessons
// @Tags idor
// @Produce json
// @Success 200 {array} map[string]any
// @Router /idor/ [get]
func (h *IDORHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, lo.Map(lessons.Lessons(), func(l *lessons.Lesson, _ int) map[string]any {
		return lessonSummary(l)
	}))
}

// lessonIndex handles GET /idor/{lesson}/
// @Summary Describe an IDOR lesson
// @Tags idor
// @Produce json
// @Param lesson path string true "Lesson name" Enums(booking, grades, inventory, notes, orders, projects, tickets, profiles)
// @Success 200 {object} map[string]any
// @Router /idor/{lesson}/ [get]
func (h *IDORHandler) lessonIndex(lesson *lessons.Lesson) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.RespondJSON(w, http.StatusOK, lessonSummary(lesson))
	}
}

// listMine handles GET /idor/{lesson}/secure/{kind}/list/
// @Summary List own resources
// @Tags idor
// @Produce json
// @Security BearerAuth
// @Param lesson path string true "Lesson name"
// @Param kind path string true "Resource kind"
// @Success 200 {array} models.Resource
// @Failure 401 {object} map[string]string "Authentication required"
// @Router /idor/{lesson}/secure/{kind}/list/ [get]
func (h *IDORHandler) listMine(lesson *lessons.Lesson, kind lessons.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resources, err := h.resourceService.ListMine(r.Context(), middleware.GetPrincipal(r.Context()), lesson, kind.Name)
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		h.RespondJSON(w, http.StatusOK, resources)
	}
}

// getSecure handles GET /idor/{lesson}/secure/{kind}/{id}/
// @Summary Get a resource with the ownership check
// @Tags idor
// @Produce json
// @Security BearerAuth
// @Param lesson path string true "Lesson name"
// @Param kind path string true "Resource kind"
// @Param id path int true "Resource ID"
// @Success 200 {object} models.Resource
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Router /idor/{lesson}/secure/{kind}/{id}/ [get]
func (h *IDORHandler) getSecure(lesson *lessons.Lesson, kind lessons.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}

		resource, err := h.resourceService.GetSecure(r.Context(), middleware.GetPrincipal(r.Context()), lesson, kind.Name, id)
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		h.RespondJSON(w, http.StatusOK, resource)
	}
}

// getVulnQuery handles GET /idor/{lesson}/vuln/{kind}/?id=
// @Summary Get a resource by query id (vulnerable)
// @Description The lesson decides which check, if any, is applied. The profiles lesson trusts the owner_id query parameter or the X-Owner-ID header.
// @Tags idor
// @Produce json
// @Param lesson path string true "Lesson name"
// @Param kind path string true "Resource kind"
// @Param id query int true "Resource ID"
// @Param owner_id query int false "Claimed owner ID"
// @Success 200 {object} models.Resource
// @Failure 404 {object} map[string]string "Not found"
// @Router /idor/{lesson}/vuln/{kind}/ [get]
func (h *IDORHandler) getVulnQuery(lesson *lessons.Lesson, kind lessons.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parsePositive(r.URL.Query().Get("id"))
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		h.getVuln(w, r, lesson, kind, id)
	}
}

// getVulnPath handles GET /idor/{lesson}/vuln/{kind}/path/{id}/
// @Summary Get a resource by path id (vulnerable)
// @Tags idor
// @Produce json
// @Param lesson path string true "Lesson name"
// @Param kind path string true "Resource kind"
// @Param id path int true "Resource ID"
// @Param owner_id query int false "Claimed owner ID"
// @Success 200 {object} models.Resource
// @Failure 404 {object} map[string]string "Not found"
// @Router /idor/{lesson}/vuln/{kind}/path/{id}/ [get]
func (h *IDORHandler) getVulnPath(lesson *lessons.Lesson, kind lessons.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(r, "id")
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		h.getVuln(w, r, lesson, kind, id)
	}
}

func (h *IDORHandler) getVuln(w http.ResponseWriter, r *http.Request, lesson *lessons.Lesson, kind lessons.Kind, id int) {
	resource, err := h.resourceService.GetVuln(r.Context(), middleware.GetPrincipal(r.Context()), lesson, kind.Name, id, claimedOwner(r))
	if err != nil {
		h.RespondServiceError(w, r, err)
		return
	}
	h.RespondJSON(w, http.StatusOK, resource)
}

// updateVuln handles POST /idor/{lesson}/vuln/{kind}/update/{id}/
// @Summary Rename a resource (vulnerable)
// @Description The profiles lesson trusts owner_id from the body, the query or the X-Owner-ID header.
// @Tags idor
// @Accept json
// @Produce json
// @Param lesson path string true "Lesson name"
// @Param kind path string true "Resource kind"
// @Param id path int true "Resource ID"
// @Param request body models.UpdateResourceRequest true "New title"
// @Success 200 {object} models.Resource
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Not found"
// @Router /idor/{lesson}/vuln/{kind}/update/{id}/ [post]
func (h *IDORHandler) updateVuln(lesson *lessons.Lesson, kind lessons.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, req, ok := h.parseUpdate(w, r)
		if !ok {
			return
		}
		if req.OwnerID == nil {
			req.OwnerID = claimedOwner(r)
		}

		resource, err := h.resourceService.UpdateVuln(r.Context(), middleware.GetPrincipal(r.Context()), lesson, kind.Name, id, req)
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		h.RespondJSON(w, http.StatusOK, resource)
	}
}

// updateSecure handles POST /idor/{lesson}/secure/{kind}/update/{id}/
// @Summary Rename a resource with the ownership check
// @Tags idor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lesson path string true "Lesson name"
// @Param kind path string true "Resource kind"
// @Param id path int true "Resource ID"
// @Param request body models.UpdateResourceRequest true "New title"
// @Success 200 {object} models.Resource
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Router /idor/{lesson}/secure/{kind}/update/{id}/ [post]
func (h *IDORHandler) updateSecure(lesson *lessons.Lesson, kind lessons.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, req, ok := h.parseUpdate(w, r)
		if !ok {
			return
		}
		// ownership comes from the session only
		req.OwnerID = nil

		resource, err := h.resourceService.UpdateSecure(r.Context(), middleware.GetPrincipal(r.Context()), lesson, kind.Name, id, req)
		if err != nil {
			h.RespondServiceError(w, r, err)
			return
		}
		h.RespondJSON(w, http.StatusOK, resource)
	}
}

func (h *IDORHandler) parseUpdate(w http.ResponseWriter, r *http.Request) (int, *models.UpdateResourceRequest, bool) {
	id, err := ParseID(r, "id")
	if err != nil {
		h.RespondServiceError(w, r, err)
		return 0, nil, false
	}

	var req models.UpdateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return 0, nil, false
	}
	return id, &req, true
}

// claimedOwner reads the owner id claimed by the client from the query or the X-Owner-ID header
func claimedOwner(r *http.Request) *int {
	value := r.URL.Query().Get("owner_id")
	if value == "" {
		value = r.Header.Get(OwnerIDHeader)
	}
	if value == "" {
		return nil
	}
	id, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &id
}

func lessonSummary(l *lessons.Lesson) map[string]any {
	return map[string]any{
		"lesson":     l.Name,
		"title":      l.Title,
		"kinds":      lo.Map(l.Kinds, func(k lessons.Kind, _ int) string { return k.Name }),
		"vuln_check": l.VulnCheck.String(),
	}
}
