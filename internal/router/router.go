package router

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sudheer0071/auth-service-new/internal/auth"
	"github.com/sudheer0071/auth-service-new/internal/handler"
	"github.com/sudheer0071/auth-service-new/internal/metrics"
	"github.com/sudheer0071/auth-service-new/internal/middleware"
	"github.com/sudheer0071/auth-service-new/internal/model"
)

// RegisterRoutes registers the unauthenticated service endpoints:
// liveness and Prometheus metrics.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", metrics.Handler())
}

// RegisterAuth wires the authentication endpoints. Register and login
// sit behind the rate limiter; logout verifies its own bearer token so
// it can revoke it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, resolver *auth.Resolver, limiter echo.MiddlewareFunc, log zerolog.Logger) {
	requireAuth := middleware.RequireAuth(resolver, log)
	requireRefresh := middleware.RequireRefresh(resolver, log)

	g := e.Group("/v1/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.GET("/refresh", a.Refresh, requireRefresh)
	g.POST("/logout", a.Logout)
	g.GET("/validate", a.Validate, requireAuth)
	g.PUT("/reset-password", a.ResetPassword, requireAuth)
	g.DELETE("/delete", a.DeleteSelf, requireAuth)
	g.DELETE("/delete/:id", a.DeleteUser, requireAuth, middleware.RequireRole(model.RoleAdmin))
	g.POST("/subscribe", a.Subscribe, limiter)
}

// RegisterHospitals wires hospital management. Creation and the full
// listing are platform-admin operations; /me needs a hospital admin
// with a registered hospital.
func RegisterHospitals(e *echo.Echo, h *handler.HospitalHandler, resolver *auth.Resolver, log zerolog.Logger) {
	g := e.Group("/v1/hospitals", middleware.RequireAuth(resolver, log))
	g.POST("", h.Create, middleware.RequireRole(model.RoleAdmin))
	g.GET("", h.List, middleware.RequireRole(model.RoleAdmin))
	g.GET("/me", h.GetMine, middleware.RequireHospitalAdmin())
	g.GET("/:id", h.GetByID, middleware.RequireRoleWithHospital(model.RoleAdmin, model.RoleHospital))
}

// RegisterDoctors wires doctor-profile management under the hospital
// that employs them.
func RegisterDoctors(e *echo.Echo, h *handler.DoctorHandler, resolver *auth.Resolver, log zerolog.Logger) {
	g := e.Group("/v1/doctors", middleware.RequireAuth(resolver, log))
	g.POST("", h.Create, middleware.RequireHospitalAdmin())
	g.GET("", h.List, middleware.RequireRoleWithHospital(model.RoleAdmin, model.RoleHospital))
	g.GET("/me", h.Me, middleware.RequireRole(model.RoleDoctor))
}

// RegisterPatients wires patient records. Doctors read within their
// hospital; writes need an admin of some kind.
func RegisterPatients(e *echo.Echo, h *handler.PatientHandler, resolver *auth.Resolver, log zerolog.Logger) {
	g := e.Group("/v1/patients", middleware.RequireAuth(resolver, log))
	g.POST("", h.Create, middleware.RequireRoleWithHospital(model.RoleAdmin, model.RoleHospital))
	g.GET("", h.List, middleware.RequireRoleWithHospital(model.RoleAdmin, model.RoleHospital, model.RoleDoctor))
	g.GET("/:id", h.GetByID, middleware.RequireRoleWithHospital(model.RoleAdmin, model.RoleHospital, model.RoleDoctor))
}
