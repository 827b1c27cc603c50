package main

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/eventloyal/auth-service/config"
	"github.com/eventloyal/auth-service/db"
	"github.com/eventloyal/auth-service/internal/auth/handler"
	repo "github.com/eventloyal/auth-service/internal/auth/repository/postgres"
	"github.com/eventloyal/auth-service/internal/auth/service"
	"github.com/eventloyal/auth-service/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("auth-service", cfg.Env)

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer dbPool.Close()

	if err := db.RunMigrations(cfg.DBURL, cfg.MigrationsDir, log); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	userRepo := repo.NewPostgresRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	codeGen := service.NewReferralCodeGenerator()
	userService := service.NewUserService(userRepo, tokenService, codeGen, cfg)
	authHandler := handler.NewAuthHandler(userService, tokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler)

	log.Infof("listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
