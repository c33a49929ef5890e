package ml

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
	rg.POST("/ml/consent", h.consent)
	rg.POST("/ml/recommendation", h.recommendation)
}

type consentRequest struct {
	ApplicantID  *int64 `json:"applicant_id"`
	ConsentGiven *bool  `json:"consent_given"`
	Version      string `json:"version"`
}

type recommendationRequest struct {
	ApplicantID *int64         `json:"applicant_id"`
	Context     map[string]any `json:"context"`
}

func (h *Handler) consent(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
		return
	}
	given := true
	if req.ConsentGiven != nil {
		given = *req.ConsentGiven
	}
	if err := h.Svc.SetConsent(c.Request.Context(), principal, ConsentInput{
		ApplicantID:  req.ApplicantID,
		ConsentGiven: given,
		Version:      req.Version,
	}); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"ok": true})
}

func (h *Handler) recommendation(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ApplicantID == nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "applicant_id is required", nil)
		return
	}
	out, err := h.Svc.Recommend(c.Request.Context(), principal, *req.ApplicantID)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, out)
}
