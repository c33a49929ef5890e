package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"scholarvalley-api/internal/applicants"
	"scholarvalley-api/internal/audit"
	"scholarvalley-api/internal/dashboard"
	"scholarvalley-api/internal/documents"
	"scholarvalley-api/internal/eligibility"
	"scholarvalley-api/internal/email"
	"scholarvalley-api/internal/messages"
	"scholarvalley-api/internal/ml"
	"scholarvalley-api/internal/payments"
	stripeproc "scholarvalley-api/internal/payments/stripe"
	"scholarvalley-api/internal/services/health"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/config"
	"scholarvalley-api/internal/shared/metrics"
	"scholarvalley-api/internal/shared/server"
	"scholarvalley-api/internal/shared/server/middleware"
	"scholarvalley-api/internal/shared/storage/db"
	"scholarvalley-api/internal/shared/storage/object"
	localstore "scholarvalley-api/internal/shared/storage/object/local"
	s3store "scholarvalley-api/internal/shared/storage/object/s3"
	"scholarvalley-api/internal/shared/telemetry"
	"scholarvalley-api/internal/tasks"
	"scholarvalley-api/internal/uploads"
	"scholarvalley-api/internal/users"
)

// Only for local runs without JWT_SECRET_KEY; Validate refuses it in production.
const devJWTSecret = "dev-secret-change-me"

// App holds shared dependencies and the wired router.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Store    object.Store
	Codec    *auth.Codec
	Registry *prometheus.Registry

	UsersRepo    users.Repo
	AuditLog     audit.Recorder
	PaymentsRepo payments.Repo

	UsersService       *users.Service
	ApplicantsService  *applicants.Service
	DocumentsService   *documents.Service
	UploadsService     *uploads.Service
	PaymentsService    *payments.Service
	TasksService       *tasks.Service
	MessagesService    *messages.Service
	DashboardService   *dashboard.Service
	EligibilityService *eligibility.Service
	MLService          *ml.Service
}

// Overrides replaces external collaborators, mainly for tests. Zero fields
// fall back to what the config selects.
type Overrides struct {
	Store     object.Store
	Processor payments.Processor
	Mailer    email.Sender
	DB        *sql.DB
}

// Build wires the application from cfg.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(cfg, Overrides{})
}

// BuildWith wires the application, preferring collaborators in o.
func BuildWith(cfg config.Config, o Overrides) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if cfg.JWTSecret == "" && cfg.IsDevLike() {
		telemetry.Warn("bootstrap.jwt_secret.missing", map[string]any{"env": cfg.Env})
		cfg.JWTSecret = devJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	ctx := context.Background()

	sqlDB := o.DB
	if sqlDB == nil {
		var err error
		sqlDB, err = buildDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		return nil, err
	}

	store := o.Store
	var localUploads gin.HandlerFunc
	if store == nil {
		if cfg.ObjectStoreType == "s3" && cfg.S3Bucket == "" && cfg.IsDevLike() {
			telemetry.Warn("bootstrap.object_store.local", map[string]any{"reason": "AWS_S3_BUCKET empty"})
			cfg.ObjectStoreType = "local"
		}
		switch cfg.ObjectStoreType {
		case "local":
			local := localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL, []byte(cfg.JWTSecret))
			store = local
			localUploads = local.Handler()
		default:
			s3, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
			if err != nil {
				return nil, err
			}
			store = s3
		}
	}

	processor := o.Processor
	if processor == nil {
		processor = stripeproc.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}

	mailer := o.Mailer
	if mailer == nil {
		mailer, err = buildMailer(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Codec:    codec,
		Registry: registry,
	}
	buildServices(app, processor, mailer, collector)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		Resolver:       &auth.Resolver{Codec: codec, Source: app.UsersService},
		Health:         health.NewService(pinger(sqlDB)),
		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),
		RateLimiter:    middleware.NewRateLimiter(nil),
		LocalUploads:   localUploads,
		Users:          users.NewHandler(app.UsersService),
		Applicants:     applicants.NewHandler(app.ApplicantsService),
		Documents:      documents.NewHandler(app.DocumentsService),
		Uploads:        uploads.NewHandler(app.UploadsService),
		Payments:       payments.NewHandler(app.PaymentsService),
		Tasks:          tasks.NewHandler(app.TasksService),
		Messages:       messages.NewHandler(app.MessagesService),
		Dashboard:      dashboard.NewHandler(app.DashboardService),
		Eligibility:    eligibility.NewHandler(app.EligibilityService),
		ML:             ml.NewHandler(app.MLService),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	defaults := db.DefaultServerOptions()
	if cfg.LambdaRuntime {
		defaults = db.DefaultLambdaOptions()
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, PoolOptions(cfg, defaults))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database.memory", map[string]any{"reason": "connect failed", "err": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// PoolOptions layers the DB_* overrides from cfg on top of defaults.
func PoolOptions(cfg config.Config, defaults db.Options) db.Options {
	return defaults.Merge(db.Options{
		MaxOpenConns:    cfg.DBPool.MaxOpenConns,
		MaxIdleConns:    cfg.DBPool.MaxIdleConns,
		ConnMaxLifetime: cfg.DBPool.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBPool.ConnMaxIdleTime,
		PingTimeout:     cfg.DBPool.PingTimeout,
	})
}

func buildMailer(ctx context.Context, cfg config.Config) (email.Sender, error) {
	if cfg.SESFromEmail == "" {
		return email.Noop{}, nil
	}
	return email.NewSES(ctx, cfg.AWSRegion, cfg.SESFromEmail)
}

func buildServices(app *App, processor payments.Processor, mailer email.Sender, rec metrics.Recorder) {
	var (
		userRepo        users.Repo
		auditLog        audit.Recorder
		applicantRepo   applicants.Repo
		documentRepo    documents.Repo
		paymentRepo     payments.Repo
		taskRepo        tasks.Repo
		messageRepo     messages.Repo
		eligibilityRepo eligibility.Repo
		consentRepo     ml.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		auditLog = &audit.PGRepo{DB: app.DB}
		applicantRepo = &applicants.PGRepo{DB: app.DB}
		documentRepo = &documents.PGRepo{DB: app.DB}
		paymentRepo = &payments.PGRepo{DB: app.DB}
		taskRepo = &tasks.PGRepo{DB: app.DB}
		messageRepo = &messages.PGRepo{DB: app.DB}
		eligibilityRepo = &eligibility.PGRepo{DB: app.DB}
		consentRepo = &ml.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		auditLog = audit.NewMemoryRepo()
		applicantRepo = applicants.NewMemoryRepo()
		documentRepo = documents.NewMemoryRepo()
		paymentRepo = payments.NewMemoryRepo()
		taskRepo = tasks.NewMemoryRepo()
		messageRepo = messages.NewMemoryRepo()
		eligibilityRepo = eligibility.NewMemoryRepo()
		consentRepo = ml.NewMemoryRepo()
	}

	cfg := app.Config
	userSvc := users.NewService(userRepo, app.Codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userSvc.Metrics = rec
	applicantSvc := applicants.NewService(applicantRepo, userSvc)

	documentSvc := documents.NewService(documentRepo, applicantSvc, app.Store, auditLog, cfg.UploadURLTTL)
	documentSvc.Metrics = rec
	uploadSvc := uploads.NewService(app.Store, auditLog, cfg.UploadURLTTL)
	uploadSvc.Metrics = rec

	paymentSvc := payments.NewService(paymentRepo, processor, auditLog, mailer, userSvc)
	paymentSvc.Metrics = rec

	taskSvc := tasks.NewService(taskRepo)
	eligibilitySvc := eligibility.NewService(eligibilityRepo, applicantSvc)
	eligibilitySvc.Metrics = rec

	app.UsersRepo = userRepo
	app.AuditLog = auditLog
	app.PaymentsRepo = paymentRepo
	app.UsersService = userSvc
	app.ApplicantsService = applicantSvc
	app.DocumentsService = documentSvc
	app.UploadsService = uploadSvc
	app.PaymentsService = paymentSvc
	app.TasksService = taskSvc
	app.MessagesService = messages.NewService(messageRepo)
	app.DashboardService = dashboard.NewService(applicantSvc, taskSvc, paymentSvc)
	app.EligibilityService = eligibilitySvc
	app.MLService = ml.NewService(consentRepo)
}

// pinger avoids handing health a typed-nil *sql.DB.
func pinger(sqlDB *sql.DB) health.Pinger {
	if sqlDB == nil {
		return nil
	}
	return sqlDB
}
