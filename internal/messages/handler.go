package messages

import (
	"net/http"

	"github.com/gin-gonic/gin"

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
	rg.POST("/messages", h.send)
	rg.GET("/messages", h.list)
	rg.POST("/messages/:messageId/read", h.markRead)
}

type sendRequest struct {
	ApplicantID *int64 `json:"applicant_id"`
	RecipientID *int64 `json:"recipient_id"`
	Body        string `json:"body"`
}

func (h *Handler) send(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
		return
	}
	m, err := h.Svc.Send(c.Request.Context(), principal, SendInput{
		ApplicantID: req.ApplicantID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, m)
}

func (h *Handler) list(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	page, err := paging.FromQuery(c, defaultListLimit)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	applicantID, err := paging.OptionalInt64(c, "applicant_id")
	if err != nil {
		respond.FromError(c, err)
		return
	}
	items, err := h.Svc.List(c.Request.Context(), principal, applicantID, page.Offset(), page.Limit)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, items)
}

func (h *Handler) markRead(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	id, err := paging.PathID(c, "messageId")
	if err != nil {
		respond.FromError(c, err)
		return
	}
	m, err := h.Svc.MarkRead(c.Request.Context(), principal, id)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, m)
}
