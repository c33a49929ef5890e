package eligibility

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
	rg.POST("/eligibility/check", h.check)
}

type checkRequest struct {
	ApplicantID *int64   `json:"applicant_id"`
	GPA         *float64 `json:"gpa"`
	TOEFL       *float64 `json:"toefl"`
	Notes       *string  `json:"notes"`
}

func (h *Handler) check(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
		return
	}
	if req.ApplicantID == nil || req.GPA == nil || req.TOEFL == nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "applicant_id, gpa and toefl are required", nil)
		return
	}
	c.Set("applicantId", *req.ApplicantID)

	out, err := h.Svc.Check(c.Request.Context(), principal, Input{
		ApplicantID: *req.ApplicantID,
		GPA:         *req.GPA,
		TOEFL:       *req.TOEFL,
		Notes:       req.Notes,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, out)
}
