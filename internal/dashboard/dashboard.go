// Package dashboard serves the staff-only operational summary.
package dashboard

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/applicants"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/server/middleware"
	"scholarvalley-api/internal/shared/server/respond"
	"scholarvalley-api/internal/tasks"
)

type ApplicantCounter interface {
	CountByStatus(ctx context.Context, status applicants.Status) (int64, error)
}

type TaskCounter interface {
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type RevenueSource interface {
	Revenue(ctx context.Context) (int64, error)
}

type Summary struct {
	AcceptedClients   int64 `json:"accepted_clients"`
	PendingTasks      int64 `json:"pending_tasks"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
}

type Service struct {
	Applicants ApplicantCounter
	Tasks      TaskCounter
	Revenue    RevenueSource
}

func NewService(apps ApplicantCounter, t TaskCounter, revenue RevenueSource) *Service {
	return &Service{Applicants: apps, Tasks: t, Revenue: revenue}
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	accepted, err := s.Applicants.CountByStatus(ctx, applicants.StatusAccepted)
	if err != nil {
		return Summary{}, fmt.Errorf("count accepted applicants: %w", err)
	}
	pending, err := s.Tasks.CountByStatus(ctx, tasks.StatusPending)
	if err != nil {
		return Summary{}, fmt.Errorf("count pending tasks: %w", err)
	}
	revenue, err := s.Revenue.Revenue(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("sum revenue: %w", err)
	}
	return Summary{AcceptedClients: accepted, PendingTasks: pending, TotalRevenueCents: revenue}, nil
}

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/summary", middleware.Require(auth.Staff), h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	out, err := h.Svc.Summary(c.Request.Context())
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, out)
}
