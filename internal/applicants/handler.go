package applicants

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/server/middleware"
	"scholarvalley-api/internal/shared/server/paging"
	"scholarvalley-api/internal/shared/server/respond"
)

const defaultListLimit = 50

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applicants", h.create)
	rg.GET("/applicants", h.list)
	rg.GET("/applicants/:applicantId", h.get)
	rg.GET("/applicants/:applicantId/bundle", h.bundle)
}

type createRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	LatestEducation string `json:"latest_education"`
}

func (h *Handler) create(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
		return
	}
	created, err := h.Svc.Create(c.Request.Context(), principal, CreateInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		LatestEducation: req.LatestEducation,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, created)
}

func (h *Handler) list(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	page, err := paging.FromQuery(c, defaultListLimit)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	items, err := h.Svc.List(c.Request.Context(), principal, page.Offset(), page.Limit)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	id, err := paging.PathID(c, "applicantId")
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("applicantId", id)
	a, err := h.Svc.Get(c.Request.Context(), principal, id)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, a)
}

func (h *Handler) bundle(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	id, err := paging.PathID(c, "applicantId")
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("applicantId", id)
	ref, err := h.Svc.Bundle(c.Request.Context(), principal, id)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, ref)
}
