package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/sudheer0071/auth-service-new/internal/auth"
	"github.com/sudheer0071/auth-service-new/internal/config"
	"github.com/sudheer0071/auth-service-new/internal/database"
	"github.com/sudheer0071/auth-service-new/internal/handler"
	"github.com/sudheer0071/auth-service-new/internal/logger"
	"github.com/sudheer0071/auth-service-new/internal/metrics"
	"github.com/sudheer0071/auth-service-new/internal/middleware"
	"github.com/sudheer0071/auth-service-new/internal/model"
	"github.com/sudheer0071/auth-service-new/internal/queue"
	"github.com/sudheer0071/auth-service-new/internal/repository"
	"github.com/sudheer0071/auth-service-new/internal/router"
	"github.com/sudheer0071/auth-service-new/internal/utils"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("auth-service")
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, revocation checks fail open and rate limiting is off")
	}

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid jwt config")
	}
	accessTTL := time.Duration(cfg.AccessTTLMin) * time.Minute
	refreshTTL := time.Duration(cfg.RefreshTTLMin) * time.Minute
	if refreshTTL <= accessTTL {
		log.Warn().Dur("access_ttl", accessTTL).Dur("refresh_ttl", refreshTTL).
			Msg("refresh token ttl is not longer than access token ttl")
	}
	tokens := auth.NewService(codec, auth.NewRedisRevocationList(rdb, log), accessTTL, refreshTTL)

	users := repository.NewUserRepo(db)
	hospitals := repository.NewHospitalRepo(db)
	doctors := repository.NewDoctorRepo(db)
	patients := repository.NewPatientRepo(db)
	newsletter := repository.NewNewsletterRepo(db)

	resolver := auth.NewResolver(tokens, users, repository.NewAffiliations(hospitals, doctors), log)
	events := queue.NewPublisher("", log)

	bootstrapAdmin(cfg, users, log)

	metrics.Init()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(metrics.Instrument())

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, newsletter, tokens, events, log), resolver, limiter, log)
	router.RegisterHospitals(e, handler.NewHospitalHandler(hospitals, users, log), resolver, log)
	router.RegisterDoctors(e, handler.NewDoctorHandler(doctors, users, log), resolver, log)
	router.RegisterPatients(e, handler.NewPatientHandler(patients, log), resolver, log)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// bootstrapAdmin seeds the first platform admin from the ADMIN_* env
// vars so a fresh deployment has a way in. Does nothing when the vars
// are unset or the account already exists.
func bootstrapAdmin(cfg config.Config, users *repository.UserRepo, log zerolog.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := users.UserByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Msg("bootstrap admin lookup failed")
		return
	}
	if existing != nil {
		return
	}

	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("bootstrap admin hash failed")
		return
	}
	username := cfg.AdminUsername
	if username == "" {
		username = "admin"
	}
	admin := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		UserType:     model.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		// Another replica may have won the race.
		if !errors.Is(err, repository.ErrEmailExists) {
			log.Error().Err(err).Msg("bootstrap admin create failed")
		}
		return
	}
	log.Info().Str("email", email).Msg("bootstrap admin created")
}
