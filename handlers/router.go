package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tollgate/auth"
	"tollgate/middleware"
	"tollgate/models"
)

// Router holds the handlers and the optional auth layer of the API.
type Router struct {
	Incidents *IncidentHandler
	Dropdowns *DropdownHandler
	Uploads   *UploadHandler
	Reports   *ReportHandler
	Recap     *RecapHandler
	Auth      *AuthHandler
	Admin     *AdminHandler

	// JWT and Users enable authentication when both are set.
	JWT   *auth.JWTManager
	Users middleware.UserLookup

	PublicDir       string
	StoreConfigured bool
}

// Handler builds the route table.
func (rt *Router) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", rt.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	if rt.Auth != nil {
		api.HandleFunc("/login", rt.Auth.Login).Methods(http.MethodPost)
		api.HandleFunc("/refresh", rt.Auth.RefreshToken).Methods(http.MethodPost)
	}

	read := rt.guard()
	write := rt.guard(models.RoleAdmin, models.RoleOperator)

	api.Handle("/sheets", read(rt.Incidents.List)).Methods(http.MethodGet)
	api.Handle("/sheets", write(rt.Incidents.Create)).Methods(http.MethodPost)
	api.Handle("/sheets/{id}", write(rt.Incidents.Update)).Methods(http.MethodPut)
	api.Handle("/sheets/{id}", write(rt.Incidents.Delete)).Methods(http.MethodDelete)
	api.Handle("/dropdowns", read(rt.Dropdowns.GetDropdowns)).Methods(http.MethodGet)
	api.Handle("/upload", write(rt.Uploads.Upload)).Methods(http.MethodPost)
	api.Handle("/generate-pdf", read(rt.Reports.Generate)).Methods(http.MethodPost)
	api.Handle("/recap", read(rt.Recap.GetRecap)).Methods(http.MethodGet)
	api.Handle("/recap/export", read(rt.Recap.Export)).Methods(http.MethodGet)

	if rt.authEnabled() && rt.Admin != nil {
		admin := rt.guard(models.RoleAdmin)
		api.Handle("/admin/users", admin(rt.Admin.GetUsers)).Methods(http.MethodGet)
		api.Handle("/admin/audit-logs", admin(rt.Admin.GetAuditLogs)).Methods(http.MethodGet)
	}

	if rt.PublicDir != "" {
		files := http.FileServer(http.Dir(rt.PublicDir))
		r.PathPrefix("/uploads/").Handler(files)
		r.PathPrefix("/reports/").Handler(files)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}

func (rt *Router) authEnabled() bool {
	return rt.JWT != nil && rt.Users != nil
}

// guard wraps a handler with authentication and, when roles are given, a
// role check. Without auth every request passes.
func (rt *Router) guard(roles ...models.UserRole) func(http.HandlerFunc) http.Handler {
	return func(h http.HandlerFunc) http.Handler {
		if !rt.authEnabled() {
			return h
		}
		var next http.Handler = h
		if len(roles) > 0 {
			next = middleware.RequireRole(roles...)(next)
		}
		return middleware.AuthMiddleware(rt.JWT, rt.Users)(next)
	}
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":%d,"version":"1.0.0","storeConfigured":%t}`, time.Now().Unix(), rt.StoreConfigured)
}
