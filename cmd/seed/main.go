package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/flowbit/flowbit-api/internal/config"
	"github.com/flowbit/flowbit-api/internal/domain"
	"github.com/flowbit/flowbit-api/internal/observability"
	"github.com/flowbit/flowbit-api/internal/persistence"
	"github.com/flowbit/flowbit-api/internal/repository"
	"github.com/flowbit/flowbit-api/internal/service"
)

type seedUser struct {
	email    string
	password string
	tenantID string
	role     domain.Role
}

var seedUsers = []seedUser{
	{"admin@logisticsco.com", "password123", "LogisticsCo", domain.RoleAdmin},
	{"user@logisticsco.com", "password123", "LogisticsCo", domain.RoleUser},
	{"admin@retailgmbh.com", "password123", "RetailGmbH", domain.RoleAdmin},
	{"user@retailgmbh.com", "password123", "RetailGmbH", domain.RoleUser},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	authService := service.NewAuthService(*cfg, userRepo)

	for _, su := range seedUsers {
		user, err := authService.Register(ctx, su.email, su.password, su.tenantID, su.role)
		if err != nil {
			logger.Warn("skipping seed user",
				zap.String("email", su.email), zap.Error(err))
			continue
		}
		logger.Info("seeded user",
			zap.String("email", user.Email),
			zap.String("tenant_id", user.TenantID),
			zap.String("role", string(user.Role)))
	}

	logger.Info("seeding complete", zap.Int("users", len(seedUsers)))
}
