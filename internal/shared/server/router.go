package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"scholarvalley-api/internal/applicants"
	"scholarvalley-api/internal/dashboard"
	"scholarvalley-api/internal/documents"
	"scholarvalley-api/internal/eligibility"
	"scholarvalley-api/internal/messages"
	"scholarvalley-api/internal/ml"
	"scholarvalley-api/internal/payments"
	"scholarvalley-api/internal/services/health"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/config"
	"scholarvalley-api/internal/shared/metrics"
	"scholarvalley-api/internal/shared/server/middleware"
	"scholarvalley-api/internal/shared/server/respond"
	localstore "scholarvalley-api/internal/shared/storage/object/local"
	"scholarvalley-api/internal/tasks"
	"scholarvalley-api/internal/uploads"
	"scholarvalley-api/internal/users"
)

const authRateGroup = "AUTH"

// RouterDeps carries everything the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config   config.Config
	Resolver *auth.Resolver
	Health   *health.Service

	Metrics        metrics.Recorder
	MetricsHandler gin.HandlerFunc
	RateLimiter    *middleware.RateLimiter

	// LocalUploads receives presigned PUTs when objects live on local disk.
	LocalUploads gin.HandlerFunc

	Users       *users.Handler
	Applicants  *applicants.Handler
	Documents   *documents.Handler
	Uploads     *uploads.Handler
	Payments    *payments.Handler
	Tasks       *tasks.Handler
	Messages    *messages.Handler
	Dashboard   *dashboard.Handler
	Eligibility *eligibility.Handler
	ML          *ml.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	rec := deps.Metrics
	if rec == nil {
		rec = metrics.Noop{}
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Metrics(rec),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})
	if deps.MetricsHandler != nil {
		r.GET("/metrics", deps.MetricsHandler)
	}
	if deps.LocalUploads != nil {
		r.PUT(localstore.RoutePath+"/*key", deps.LocalUploads)
	}

	api := r.Group("/api")
	if deps.Config.AuthRatePerMinute > 0 {
		api.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    map[string]middleware.RateLimitRule{authRateGroup: middleware.PerMinute(deps.Config.AuthRatePerMinute)},
			GroupFor: authGroup,
			Limiter:  deps.RateLimiter,
		}))
	}

	public := api.Group("")
	if deps.Users != nil {
		deps.Users.RegisterPublicRoutes(public)
	}
	if deps.Payments != nil {
		deps.Payments.RegisterPublicRoutes(public)
	}

	protected := api.Group("")
	protected.Use(middleware.Authenticate(deps.Resolver))
	if deps.Users != nil {
		deps.Users.RegisterRoutes(protected)
	}
	if deps.Applicants != nil {
		deps.Applicants.RegisterRoutes(protected)
	}
	if deps.Documents != nil {
		deps.Documents.RegisterRoutes(protected)
	}
	if deps.Uploads != nil {
		deps.Uploads.RegisterRoutes(protected)
	}
	if deps.Payments != nil {
		deps.Payments.RegisterRoutes(protected)
	}
	if deps.Tasks != nil {
		deps.Tasks.RegisterRoutes(protected)
	}
	if deps.Messages != nil {
		deps.Messages.RegisterRoutes(protected)
	}
	if deps.Dashboard != nil {
		deps.Dashboard.RegisterRoutes(protected)
	}
	if deps.Eligibility != nil {
		deps.Eligibility.RegisterRoutes(protected)
	}
	if deps.ML != nil {
		deps.ML.RegisterRoutes(protected)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "Not Found", nil)
	})

	return r
}

// authGroup puts credential endpoints in their own rate-limit bucket; other
// routes are not limited.
func authGroup(c *gin.Context) string {
	if strings.HasPrefix(c.Request.URL.Path, "/api/auth/") {
		return authRateGroup
	}
	return "UNLIMITED"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
