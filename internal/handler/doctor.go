package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudheer0071/auth-service-new/internal/middleware"
	"github.com/sudheer0071/auth-service-new/internal/model"
	"github.com/sudheer0071/auth-service-new/internal/repository"
)

type DoctorHandler struct {
	Doctors *repository.DoctorRepo
	Users   *repository.UserRepo
	Log     zerolog.Logger
}

func NewDoctorHandler(doctors *repository.DoctorRepo, users *repository.UserRepo, log zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{Doctors: doctors, Users: users, Log: log}
}

// ----- DTOs -----

type createDoctorReq struct {
	UserID     string `json:"user_id" validate:"required"`
	Department string `json:"department" validate:"required,min=2,max=100"`
	YearsOfExp int    `json:"years_of_exp" validate:"min=0,max=80"`
	Signature  string `json:"signature"`
}

type doctorResp struct {
	UserID     string  `json:"user_id"`
	Department string  `json:"department"`
	YearsOfExp int     `json:"years_of_exp"`
	HospitalID string  `json:"hospital_id,omitempty"`
	Signature  *string `json:"signature,omitempty"`
}

func doctorToResp(d *model.Doctor) *doctorResp {
	return &doctorResp{
		UserID:     d.UserID,
		Department: d.Department,
		YearsOfExp: d.YearsOfExp,
		HospitalID: d.HospitalID,
		Signature:  d.Signature,
	}
}

// Create attaches a doctor profile to an existing DOCTOR account.
// Hospital admin only; the profile is bound to the caller's hospital.
func (h *DoctorHandler) Create(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil || id.Hospital == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	var req createDoctorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UserByID(ctx, req.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "doctor user not found"})
	}
	if u.UserType != model.RoleDoctor {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user must have DOCTOR role"})
	}

	d := &model.Doctor{
		UserID:     req.UserID,
		Department: strings.TrimSpace(req.Department),
		YearsOfExp: req.YearsOfExp,
		HospitalID: id.Hospital.ID,
	}
	if req.Signature != "" {
		d.Signature = &req.Signature
	}

	if err := h.Doctors.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "doctor profile already exists"})
		}
		h.Log.Error().Err(err).Msg("create doctor failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create doctor failed"})
	}

	h.Log.Info().Str("user_id", d.UserID).Str("hospital_id", d.HospitalID).Msg("doctor profile created")
	return c.JSON(http.StatusCreated, doctorToResp(d))
}

// List returns the doctors of one hospital. A hospital admin always
// sees their own staff; a platform admin picks the hospital with
// ?hospital_id.
func (h *DoctorHandler) List(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	var hospitalID string
	switch id.Role {
	case model.RoleHospital:
		hospitalID = id.Hospital.ID
	default:
		hospitalID = c.QueryParam("hospital_id")
		if hospitalID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hospital_id query param required"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	doctors, err := h.Doctors.ListByHospital(ctx, hospitalID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]*doctorResp, 0, len(doctors))
	for i := range doctors {
		out = append(out, doctorToResp(&doctors[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"doctors": out})
}

// Me returns the caller's own doctor profile.
func (h *DoctorHandler) Me(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	if id.Doctor == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "doctor profile not found"})
	}
	return c.JSON(http.StatusOK, doctorToResp(id.Doctor))
}
