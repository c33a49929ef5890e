package main

// Create the root account if it does not exist:
//   ROOT_PASSWORD=... go run ./cmd/seed-root

import (
	"context"
	"log"
	"time"

	"scholarvalley-api/internal/bootstrap"
	"scholarvalley-api/internal/shared/auth"
	"scholarvalley-api/internal/shared/config"
	"scholarvalley-api/internal/shared/telemetry"
	"scholarvalley-api/internal/users"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, created, err := app.UsersService.EnsureUser(ctx, users.RegisterInput{
		Email:    cfg.RootEmail,
		FullName: "Root",
		Password: cfg.RootPassword,
	}, auth.RoleRoot)
	if err != nil {
		log.Fatalf("seed root: %v", err)
	}
	if !created {
		telemetry.Info("seed_root.exists", map[string]any{"user_id": user.ID, "email": user.Email})
		return
	}
	telemetry.Info("seed_root.created", map[string]any{"user_id": user.ID, "email": user.Email})
}
