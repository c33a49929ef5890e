package uploads

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/server/middleware"
	"scholarvalley-api/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/initiate", h.initiate)
	rg.POST("/uploads/complete", h.complete)
}

type initiateRequest struct {
	ContentType string `json:"content_type"`
}

type completeRequest struct {
	Key string `json:"key"`
}

func (h *Handler) initiate(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	req := initiateRequest{ContentType: c.Query("content_type")}
	if req.ContentType == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
			return
		}
	}
	out, err := h.Svc.Initiate(c.Request.Context(), principal, req.ContentType, c.ClientIP())
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) complete(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	req := completeRequest{Key: c.Query("key")}
	if req.Key == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
			return
		}
	}
	out, err := h.Svc.Complete(c.Request.Context(), principal, req.Key, c.ClientIP())
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, out)
}
