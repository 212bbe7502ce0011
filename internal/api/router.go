// filepath: internal/api/router.go
package api

import (
	"net/http"

	"intakehub/internal/api/handlers"
	"intakehub/internal/services/auth"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter configures the main router and its sub-routers.
// reg may be nil, in which case /metrics is not served.
func SetupRouter(h *handlers.Handlers, am *auth.Middleware, reg *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	// Public Endpoints
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/api/info", h.GetInfo).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).Methods("GET")
	}

	// Public Token Endpoint (Not protected by RequireAdmin)
	r.HandleFunc("/api/token", h.GetToken).Methods("POST")

	apiRouter := r.PathPrefix("/api").Subrouter()
	addKioskRoutes(apiRouter, h)
	addAdminRoutes(apiRouter, h, am)

	return r
}

// addKioskRoutes configures the routes used by the intake kiosks.
func addKioskRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/households", h.LookupHousehold).Methods("GET")
	r.HandleFunc("/intakes", h.SubmitIntake).Methods("POST")
	r.HandleFunc("/visits", h.LogVisit).Methods("POST")
}

// addAdminRoutes configures routes that need an admin Bearer token.
func addAdminRoutes(r *mux.Router, h *handlers.Handlers, am *auth.Middleware) {
	adminRouter := r.PathPrefix("").Subrouter()
	adminRouter.Use(am.RequireAdmin)
	adminRouter.HandleFunc("/records/{key:[0-9]+}", h.UpdateRecord).Methods("PATCH")
	adminRouter.HandleFunc("/records/{key:[0-9]+}", h.DeleteRecord).Methods("DELETE")
	adminRouter.HandleFunc("/export", h.ExportRecords).Methods("GET")
	adminRouter.HandleFunc("/repair", h.RepairRecords).Methods("POST")
	adminRouter.HandleFunc("/housekeeping", h.TriggerHousekeeping).Methods("POST")
	adminRouter.HandleFunc("/reports", h.GetReport).Methods("GET")
}
