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
	"github.com/sudheer0071/auth-service-new/internal/middleware"
	"github.com/sudheer0071/auth-service-new/internal/model"
	"github.com/sudheer0071/auth-service-new/internal/repository"
)

const dateLayout = "2006-01-02"

type PatientHandler struct {
	Patients *repository.PatientRepo
	Log      zerolog.Logger
}

func NewPatientHandler(patients *repository.PatientRepo, log zerolog.Logger) *PatientHandler {
	return &PatientHandler{Patients: patients, Log: log}
}

// ----- DTOs -----

type createPatientReq struct {
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	Gender     string `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	Department string `json:"department" validate:"required"`
	UHID       string `json:"uhid" validate:"required"`
	DOB        string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Weight     *int   `json:"weight" validate:"omitempty,min=0"`
	Height     *int   `json:"height" validate:"omitempty,min=0"`
	HospitalID string `json:"hospital_id"`
}

type patientResp struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Gender     string `json:"gender"`
	Department string `json:"department"`
	UHID       string `json:"uhid"`
	DOB        string `json:"dob,omitempty"`
	Weight     *int   `json:"weight,omitempty"`
	Height     *int   `json:"height,omitempty"`
	HospitalID string `json:"hospital_id"`
	LatestDate string `json:"latest_date"`
}

func patientToResp(p *model.Patient) *patientResp {
	out := &patientResp{
		ID:         p.ID,
		FullName:   p.FullName,
		Gender:     string(p.Gender),
		Department: p.Department,
		UHID:       p.UHID,
		Weight:     p.Weight,
		Height:     p.Height,
		HospitalID: p.HospitalID,
		LatestDate: p.LatestDate.UTC().Format(time.RFC3339),
	}
	if p.DOB != nil {
		out.DOB = p.DOB.Format(dateLayout)
	}
	return out
}

// callerHospitalID picks the hospital scope for non-admin callers.
// Admins pass the explicit id through; everyone else is pinned to
// their own affiliation.
func callerHospitalID(id *auth.Identity, explicit string) (string, error) {
	if id.Role == model.RoleAdmin {
		return explicit, nil
	}
	if id.Hospital == nil {
		return "", errors.New("hospital context missing")
	}
	return id.Hospital.ID, nil
}

// Create admits a patient record under a hospital. A hospital admin
// writes into their own hospital; a platform admin must name one.
func (h *PatientHandler) Create(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	var req createPatientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hospitalID, err := callerHospitalID(id, req.HospitalID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if hospitalID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hospital_id required"})
	}

	now := time.Now().UTC()
	p := &model.Patient{
		ID:         uuid.NewString(),
		FullName:   strings.TrimSpace(req.FullName),
		Gender:     model.Gender(req.Gender),
		Department: strings.TrimSpace(req.Department),
		UHID:       strings.TrimSpace(req.UHID),
		Weight:     req.Weight,
		Height:     req.Height,
		HospitalID: hospitalID,
		LatestDate: now,
	}
	if req.DOB != "" {
		dob, err := time.Parse(dateLayout, req.DOB)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dob"})
		}
		p.DOB = &dob
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Patients.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "uhid already registered"})
		}
		h.Log.Error().Err(err).Msg("create patient failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create patient failed"})
	}

	return c.JSON(http.StatusCreated, patientToResp(p))
}

// List returns patients in the caller's hospital scope. Platform
// admins see everything.
func (h *PatientHandler) List(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		patients []model.Patient
		err      error
	)
	if id.Role == model.RoleAdmin {
		patients, err = h.Patients.List(ctx)
	} else {
		if id.Hospital == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "hospital context missing"})
		}
		patients, err = h.Patients.ListByHospital(ctx, id.Hospital.ID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]*patientResp, 0, len(patients))
	for i := range patients {
		out = append(out, patientToResp(&patients[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"patients": out})
}

// GetByID returns one patient. Non-admin callers can only read
// records inside their own hospital.
func (h *PatientHandler) GetByID(c echo.Context) error {
	id := middleware.CurrentIdentity(c)
	if id == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	patientID := c.Param("id")
	if patientID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "patient id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Patients.PatientByID(ctx, patientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "patient not found"})
	}
	if id.Role != model.RoleAdmin {
		if id.Hospital == nil || id.Hospital.ID != p.HospitalID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "patient belongs to another hospital"})
		}
	}
	return c.JSON(http.StatusOK, patientToResp(p))
}
