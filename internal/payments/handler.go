package payments

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/shared/server/middleware"
	"scholarvalley-api/internal/shared/server/respond"
)

// Stripe caps event payloads well below this.
const maxWebhookBytes = 1 << 20

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes mounts the processor callback, which carries no
// bearer token.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", h.webhook)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/checkout-session", h.checkout)
}

type checkoutRequest struct {
	AmountCents *int64 `json:"amount_cents"`
	Currency    string `json:"currency"`
	ApplicantID *int64 `json:"applicant_id"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

func (h *Handler) checkout(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c)
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AmountCents == nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "amount_cents, success_url and cancel_url are required", nil)
		return
	}
	out, err := h.Svc.CreateCheckout(c.Request.Context(), principal, CheckoutInput{
		AmountCents: *req.AmountCents,
		Currency:    req.Currency,
		ApplicantID: req.ApplicantID,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
	}, c.ClientIP())
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid payload", nil)
		return
	}
	if err := h.Svc.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"), c.ClientIP()); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"ok": true})
}
