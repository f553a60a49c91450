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

	"github.com/sudheer0071/auth-service-new/internal/middleware"
	"github.com/sudheer0071/auth-service-new/internal/model"
	"github.com/sudheer0071/auth-service-new/internal/repository"
)

type HospitalHandler struct {
	Hospitals *repository.HospitalRepo
	Users     *repository.UserRepo
	Log       zerolog.Logger
}

func NewHospitalHandler(hospitals *repository.HospitalRepo, users *repository.UserRepo, log zerolog.Logger) *HospitalHandler {
	return &HospitalHandler{Hospitals: hospitals, Users: users, Log: log}
}

// ----- DTOs -----

type createHospitalReq struct {
	Name               string `json:"hospital_name" validate:"required,min=2,max=100"`
	AdminID            string `json:"admin_id" validate:"required"`
	RegistrationNumber string `json:"registration_number" validate:"required"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone" validate:"required"`
	Logo               string `json:"logo"`
}

type hospitalResp struct {
	ID                 string  `json:"id"`
	Name               string  `json:"hospital_name"`
	AdminID            string  `json:"admin_id"`
	RegistrationNumber string  `json:"registration_number"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`
	Logo               *string `json:"logo,omitempty"`
}

func hospitalToResp(hosp *model.Hospital) *hospitalResp {
	return &hospitalResp{
		ID:                 hosp.ID,
		Name:               hosp.Name,
		AdminID:            hosp.AdminID,
		RegistrationNumber: hosp.RegistrationNumber,
		Email:              hosp.Email,
		Phone:              hosp.Phone,
		Logo:               hosp.Logo,
	}
}

// Create registers a hospital and binds it to an admin account.
// Platform admin only; the admin account named in the body must exist
// and carry the HOSPITAL role.
func (h *HospitalHandler) Create(c echo.Context) error {
	var req createHospitalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	admin, err := h.Users.UserByID(ctx, req.AdminID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if admin == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "admin user not found"})
	}
	if admin.UserType != model.RoleHospital {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "admin user must have HOSPITAL role"})
	}

	hosp := &model.Hospital{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(req.Name),
		AdminID:            req.AdminID,
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:              strings.TrimSpace(req.Phone),
	}
	if req.Logo != "" {
		hosp.Logo = &req.Logo
	}

	if err := h.Hospitals.Create(ctx, hosp); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hospital already registered for this admin"})
		}
		h.Log.Error().Err(err).Msg("create hospital failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hospital failed"})
	}

	h.Log.Info().Str("hospital_id", hosp.ID).Str("admin_id", hosp.AdminID).Msg("hospital registered")
	return c.JSON(http.StatusCreated, hospitalToResp(hosp))
}

// GetMine returns the caller's own hospital. Runs behind
// RequireHospitalAdmin, so the affiliation is guaranteed present.
func (h *HospitalHandler) GetMine(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil || id.Hospital == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	return c.JSON(http.StatusOK, hospitalToResp(id.Hospital))
}

// GetByID returns one hospital. A hospital admin can only read their
// own; platform admins can read any.
func (h *HospitalHandler) GetByID(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	hospitalID := c.Param("id")
	if hospitalID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hospital id required"})
	}
	if id.Role == model.RoleHospital && id.Hospital.ID != hospitalID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot access another hospital"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hosp, err := h.Hospitals.HospitalByID(ctx, hospitalID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if hosp == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hospital not found"})
	}
	return c.JSON(http.StatusOK, hospitalToResp(hosp))
}

// List returns every registered hospital. Platform admin only.
func (h *HospitalHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hospitals, err := h.Hospitals.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]*hospitalResp, 0, len(hospitals))
	for i := range hospitals {
		out = append(out, hospitalToResp(&hospitals[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"hospitals": out})
}
