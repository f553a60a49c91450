package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudheer0071/auth-service-new/internal/auth"
	"github.com/sudheer0071/auth-service-new/internal/config"
	"github.com/sudheer0071/auth-service-new/internal/metrics"
	"github.com/sudheer0071/auth-service-new/internal/middleware"
	"github.com/sudheer0071/auth-service-new/internal/model"
	"github.com/sudheer0071/auth-service-new/internal/queue"
	"github.com/sudheer0071/auth-service-new/internal/repository"
	"github.com/sudheer0071/auth-service-new/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg        config.Config
	Users      *repository.UserRepo
	Newsletter *repository.NewsletterRepo
	Tokens     *auth.Service
	Events     *queue.Publisher
	Log        zerolog.Logger
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, newsletter *repository.NewsletterRepo,
	tokens *auth.Service, events *queue.Publisher, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Newsletter: newsletter, Tokens: tokens, Events: events, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"max=100"`
	Gender   string `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	UserType string `json:"user_type" validate:"required,oneof=ADMIN HOSPITAL DOCTOR"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

type subscribeReq struct {
	Email string `json:"email" validate:"required,email"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

type userResp struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	UserType string `json:"user_type"`
}

type identityResp struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	Username string        `json:"username"`
	UserType string        `json:"user_type"`
	Hospital *hospitalResp `json:"hospital,omitempty"`
	Doctor   *doctorResp   `json:"doctor,omitempty"`
}

// Register creates an account. Tokens are not issued here; the client
// logs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Gender:       model.Gender(req.Gender),
		UserType:     model.Role(req.UserType),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email or username already registered"})
		}
		h.Log.Error().Err(err).Msg("register: create user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	// Best effort; registration already succeeded.
	_ = h.Events.Publish(ctx, queue.QueueUserRegistered, queue.UserRegisteredEvent{
		UserID:       u.ID,
		Email:        u.Email,
		Username:     u.Username,
		UserType:     string(u.UserType),
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	h.Log.Info().Str("user_id", u.ID).Str("user_type", string(u.UserType)).Msg("user registered")
	return c.JSON(http.StatusCreated, userResp{
		ID: u.ID, Email: u.Email, Username: u.Username, UserType: string(u.UserType),
	})
}

// Login verifies credentials and returns a fresh access/refresh pair.
// A wrong password and an unknown email produce the same response, so
// the endpoint does not leak which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UserByEmail(ctx, req.Email)
	if err != nil {
		h.Log.Error().Err(err).Msg("login: user lookup failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		metrics.LoginAttempt("failure")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := h.Tokens.IssueAccessToken(u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := h.Tokens.IssueRefreshToken(u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	metrics.LoginAttempt("success")
	metrics.TokenIssued(string(auth.KindAccess))
	metrics.TokenIssued(string(auth.KindRefresh))

	_ = h.Events.Publish(ctx, queue.QueueUserLoggedIn, queue.UserLoggedInEvent{
		UserID:     u.ID,
		Email:      u.Email,
		UserType:   string(u.UserType),
		LoggedInAt: time.Now().UTC().Format(time.RFC3339),
	})

	h.Log.Info().Str("user_id", u.ID).Msg("login succeeded")
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

// Refresh mints a new access token for the bearer of a valid refresh
// token. The refresh token is not rotated. Runs behind
// middleware.RequireRefresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	access, err := h.Tokens.IssueAccessToken(id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	metrics.TokenIssued(string(auth.KindAccess))

	return c.JSON(http.StatusOK, tokenResp{AccessToken: access, TokenType: "bearer"})
}

// Logout revokes the presented access token for the rest of its
// lifetime. The token is verified here rather than by middleware
// because the handler needs its claims, not just the identity.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := auth.ExtractBearerToken(c.Request().Header.Get("Authorization"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid authorization header"})
	}

	cl, err := h.Tokens.Verify(token, auth.KindAccess)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.Revoke(ctx, cl); err != nil {
		h.Log.Error().Err(err).Str("user_id", cl.UserID()).Msg("logout: revoke failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to revoke token"})
	}
	metrics.TokenRevoked()

	h.Log.Info().Str("user_id", cl.UserID()).Msg("access token revoked")
	return c.JSON(http.StatusOK, echo.Map{"message": "access token revoked"})
}

// Validate returns the fully resolved identity of the caller,
// including hospital/doctor affiliation. Runs behind RequireAuth.
func (h *AuthHandler) Validate(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	resp := identityResp{
		ID:       id.UserID,
		Email:    id.Email,
		Username: id.Username,
		UserType: string(id.Role),
	}
	if id.Hospital != nil {
		resp.Hospital = hospitalToResp(id.Hospital)
	}
	if id.Doctor != nil {
		resp.Doctor = doctorToResp(id.Doctor)
	}
	return c.JSON(http.StatusOK, resp)
}

// ResetPassword replaces the caller's password after verifying the
// current one.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UserByID(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid old password"})
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update password failed"})
	}

	h.Log.Info().Str("user_id", u.ID).Msg("password reset")
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

// DeleteSelf removes the caller's account. Outstanding tokens die
// with it: the resolver rejects subjects with no live user record.
func (h *AuthHandler) DeleteSelf(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	h.Log.Info().Str("user_id", id.UserID).Msg("account deleted")
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser removes an arbitrary account. Admin only, enforced by
// route middleware.
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	target := c.Param("id")
	if target == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, target); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	h.Log.Info().Str("user_id", target).Str("deleted_by", middleware.CurrentIdentity(c).UserID).Msg("account deleted by admin")
	return c.NoContent(http.StatusNoContent)
}

// Subscribe records a newsletter address. Subscribing twice is
// reported as success.
func (h *AuthHandler) Subscribe(c echo.Context) error {
	var req subscribeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.Newsletter.Subscribe(ctx, uuid.NewString(), email); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusOK, echo.Map{"message": "already subscribed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscribe failed"})
	}

	_ = h.Events.Publish(ctx, queue.QueueNewsletterSubscribed, queue.NewsletterSubscribedEvent{
		Email:        email,
		SubscribedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"message": "subscribed"})
}
