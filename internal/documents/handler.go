package documents

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/server/middleware"
	"scholarvalley-api/internal/shared/server/paging"
	"scholarvalley-api/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bundles/:bundleId/documents/initiate", h.initiate)
	rg.POST("/documents/:documentId/complete", h.complete)
}

func (h *Handler) initiate(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	bundleID, err := paging.PathID(c, "bundleId")
	if err != nil {
		respond.FromError(c, err)
		return
	}

	// Parameters may arrive on the query string or in a JSON body.
	req := initiateRequest{
		Filename:    c.Query("filename"),
		ContentType: c.Query("content_type"),
	}
	if req.Filename == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
			return
		}
	}

	out, err := h.Svc.Initiate(c.Request.Context(), principal, bundleID, req.Filename, req.ContentType, c.ClientIP())
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("documentId", out.DocumentID)
	respond.OK(c, out)
}

func (h *Handler) complete(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	documentID, err := paging.PathID(c, "documentId")
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("documentId", documentID)

	req := completeRequest{Key: c.Query("key")}
	if req.Key == "" {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
			return
		}
	}

	out, err := h.Svc.Complete(c.Request.Context(), principal, documentID, req.Key, c.ClientIP())
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, out)
}
