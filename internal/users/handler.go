package users

import (
	"errors"
	"net/http"
	"strings"

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

// RegisterPublicRoutes mounts the unauthenticated account routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.me)
}

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, user)
}

// login accepts the OAuth2 password form (username, password) as well as a
// JSON body.
func (h *Handler) login(c *gin.Context) {
	var email, password string
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "invalid request body", nil)
			return
		}
		email = req.Email
		if email == "" {
			email = req.Username
		}
		password = req.Password
	} else {
		email = c.PostForm("username")
		password = c.PostForm("password")
	}
	if strings.TrimSpace(email) == "" || password == "" {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "username and password are required", nil)
		return
	}

	pair, err := h.Svc.Login(c.Request.Context(), email, password)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, pair)
}

func (h *Handler) me(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Not authenticated", nil)
		return
	}
	user, err := h.Svc.GetByID(c.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
			return
		}
		respond.Internal(c, err)
		return
	}
	respond.OK(c, user)
}
