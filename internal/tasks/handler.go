package tasks

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/server/middleware"
	"scholarvalley-api/internal/shared/server/paging"
	"scholarvalley-api/internal/shared/server/respond"
)

const defaultListLimit = 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tasks", middleware.Require(auth.Staff), h.create)
	rg.GET("/tasks", h.list)
	rg.PATCH("/tasks/:taskId/status", h.updateStatus)
}

type createRequest struct {
	ApplicantID *int64     `json:"applicant_id"`
	AssigneeID  *int64     `json:"assignee_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
}

type statusRequest struct {
	NewStatus string `json:"new_status"`
}

func (h *Handler) create(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), principal, CreateInput{
		ApplicantID: req.ApplicantID,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, t)
}

func (h *Handler) list(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	page, err := paging.FromQuery(c, defaultListLimit)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	assignee, err := paging.OptionalInt64(c, "assignee_id")
	if err != nil {
		respond.FromError(c, err)
		return
	}
	applicant, err := paging.OptionalInt64(c, "applicant_id")
	if err != nil {
		respond.FromError(c, err)
		return
	}
	items, err := h.Svc.List(c.Request.Context(), principal, ListFilter{
		AssigneeID:  assignee,
		ApplicantID: applicant,
		Status:      c.Query("status"),
		Offset:      page.Offset(),
		Limit:       page.Limit,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, items)
}

func (h *Handler) updateStatus(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	id, err := paging.PathID(c, "taskId")
	if err != nil {
		respond.FromError(c, err)
		return
	}
	req := statusRequest{NewStatus: c.Query("new_status")}
	if req.NewStatus == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
			return
		}
	}
	t, err := h.Svc.UpdateStatus(c.Request.Context(), principal, id, req.NewStatus)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, t)
}
