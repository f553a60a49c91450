package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudheer0071/auth-service-new/internal/auth"
	"github.com/sudheer0071/auth-service-new/internal/middleware"
	"github.com/sudheer0071/auth-service-new/internal/model"
	"github.com/sudheer0071/auth-service-new/internal/repository"
)

var patientCols = []string{"id", "fullname", "gender", "department", "uhid", "dob", "weight", "height", "hospital_id", "latest_date", "created_at", "updated_at"}

func patientRow(id, fullName, hospitalID string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(patientCols).
		AddRow(id, fullName, "MALE", "cardiology", "UH-1", nil, nil, nil, hospitalID, now, now, now)
}

func newPatientServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock, *auth.Service) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	codec, err := auth.NewCodec("test-secret", "HS256")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	tokens := auth.NewService(codec, auth.NewRedisRevocationList(nil, zerolog.Nop()), 15*time.Minute, time.Hour)

	users := repository.NewUserRepo(db)
	hospitals := repository.NewHospitalRepo(db)
	doctors := repository.NewDoctorRepo(db)
	resolver := auth.NewResolver(tokens, users, repository.NewAffiliations(hospitals, doctors), zerolog.Nop())

	h := NewPatientHandler(repository.NewPatientRepo(db), zerolog.Nop())

	e := echo.New()
	e.Validator = NewValidator()
	g := e.Group("/v1/patients", middleware.RequireAuth(resolver, zerolog.Nop()))
	g.POST("", h.Create, middleware.RequireRoleWithHospital(model.RoleAdmin, model.RoleHospital))
	g.GET("", h.List, middleware.RequireRoleWithHospital(model.RoleAdmin, model.RoleHospital, model.RoleDoctor))
	g.GET("/:id", h.GetByID, middleware.RequireRoleWithHospital(model.RoleAdmin, model.RoleHospital, model.RoleDoctor))

	return e, mock, tokens
}

func TestPatientCreateByHospitalAdmin(t *testing.T) {
	e, mock, tokens := newPatientServer(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u-hosp").
		WillReturnRows(plainUserRow("u-hosp", "h@x.test", "hosp", model.RoleHospital))
	mock.ExpectQuery("SELECT (.+) FROM hospital WHERE admin").
		WithArgs("u-hosp").
		WillReturnRows(hospitalRow("h1", "City Clinic", "u-hosp"))
	mock.ExpectExec("INSERT INTO patient").
		WithArgs(sqlmock.AnyArg(), "John Moore", "MALE", "cardiology", "UH-1", nil, nil, nil, "h1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	access, err := tokens.IssueAccessToken("u-hosp")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	rec := serve(e, jsonReq(http.MethodPost, "/v1/patients",
		`{"full_name":"John Moore","gender":"MALE","department":"cardiology","uhid":"UH-1"}`, access))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	// The record lands in the caller's hospital regardless of input.
	if !strings.Contains(rec.Body.String(), `"hospital_id":"h1"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPatientCreatePlatformAdminMustNameHospital(t *testing.T) {
	e, mock, tokens := newPatientServer(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u-admin").
		WillReturnRows(plainUserRow("u-admin", "a@x.test", "root", model.RoleAdmin))

	access, err := tokens.IssueAccessToken("u-admin")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	rec := serve(e, jsonReq(http.MethodPost, "/v1/patients",
		`{"full_name":"John Moore","gender":"MALE","department":"cardiology","uhid":"UH-1"}`, access))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hospital_id required") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPatientListDoctorUsesOwnHospitalScope(t *testing.T) {
	e, mock, tokens := newPatientServer(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u-doc").
		WillReturnRows(plainUserRow("u-doc", "d@x.test", "doc", model.RoleDoctor))
	mock.ExpectQuery("SELECT (.+) FROM doctor WHERE user_id").
		WithArgs("u-doc").
		WillReturnRows(sqlmock.NewRows(doctorCols).AddRow("u-doc", "cardiology", 7, "h1", nil))
	mock.ExpectQuery("SELECT (.+) FROM hospital WHERE id").
		WithArgs("h1").
		WillReturnRows(hospitalRow("h1", "City Clinic", "u-hosp"))
	mock.ExpectQuery("SELECT (.+) FROM patient WHERE hospital_id").
		WithArgs("h1").
		WillReturnRows(patientRow("p1", "John Moore", "h1"))

	access, err := tokens.IssueAccessToken("u-doc")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	rec := serve(e, jsonReq(http.MethodGet, "/v1/patients", "", access))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "John Moore") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPatientListUnattachedDoctor(t *testing.T) {
	e, mock, tokens := newPatientServer(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u-doc").
		WillReturnRows(plainUserRow("u-doc", "d@x.test", "doc", model.RoleDoctor))
	mock.ExpectQuery("SELECT (.+) FROM doctor WHERE user_id").
		WithArgs("u-doc").
		WillReturnRows(sqlmock.NewRows(doctorCols))

	access, err := tokens.IssueAccessToken("u-doc")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	// Passes the role guard, but has no hospital to scope the query.
	rec := serve(e, jsonReq(http.MethodGet, "/v1/patients", "", access))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "hospital context missing") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPatientGetFromAnotherHospital(t *testing.T) {
	e, mock, tokens := newPatientServer(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u-doc").
		WillReturnRows(plainUserRow("u-doc", "d@x.test", "doc", model.RoleDoctor))
	mock.ExpectQuery("SELECT (.+) FROM doctor WHERE user_id").
		WithArgs("u-doc").
		WillReturnRows(sqlmock.NewRows(doctorCols).AddRow("u-doc", "cardiology", 7, "h1", nil))
	mock.ExpectQuery("SELECT (.+) FROM hospital WHERE id").
		WithArgs("h1").
		WillReturnRows(hospitalRow("h1", "City Clinic", "u-hosp"))
	mock.ExpectQuery("SELECT (.+) FROM patient WHERE id").
		WithArgs("p2").
		WillReturnRows(patientRow("p2", "Jane Doe", "h2"))

	access, err := tokens.IssueAccessToken("u-doc")
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	rec := serve(e, jsonReq(http.MethodGet, "/v1/patients/p2", "", access))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "another hospital") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
