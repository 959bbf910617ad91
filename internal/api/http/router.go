package http

import (
	"net/http"
	"time"

	"reviwa-backend/internal/logger"
	"reviwa-backend/internal/service"
	"reviwa-backend/internal/storage"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type RouterConfig struct {
	CORSOrigins  []string
	CookieName   string
	CookieSecure bool
	MaxFileBytes int64
	// Images, when set, exposes GET /uploads/{key} for the local backend.
	Images storage.Storage
}

type Services struct {
	Auth         service.AuthService
	Reports      service.ReportService
	Users        service.UserService
	Admin        service.AdminService
	Gamification service.GamificationService
	Mail         service.MailService
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "Reviwa API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error:   "NotFoundError",
		Message: "Route " + r.URL.Path + " not found",
	})
}

// NewRouter wires every REST route. The returned handler includes request
// ids, access logging, panic recovery, CORS and authentication.
func NewRouter(svcs Services, cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)

	authH := NewAuthHandler(svcs.Auth, cfg.CookieName, cfg.CookieSecure)
	reportH := NewReportHandler(svcs.Reports, svcs.Admin, cfg.MaxFileBytes)
	userH := NewUserHandler(svcs.Users, svcs.Admin, svcs.Gamification)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", health).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", authH.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", authH.Me).Methods(http.MethodGet)
	api.HandleFunc("/auth/logout", authH.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/forgot-password", authH.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/auth/reset-password/{token}", authH.ResetPassword).Methods(http.MethodPut)

	api.HandleFunc("/reports", reportH.List).Methods(http.MethodGet)
	api.HandleFunc("/reports", reportH.Create).Methods(http.MethodPost)
	api.HandleFunc("/reports/stats", reportH.Stats).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", reportH.Get).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", reportH.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/reports/{id}/status", reportH.UpdateStatus).Methods(http.MethodPatch)

	api.HandleFunc("/users/leaderboard", userH.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/users/me/points", userH.Points).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", userH.Get).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", userH.Update).Methods(http.MethodPatch)
	api.HandleFunc("/users/{id}/role", userH.ChangeRole).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", userH.Deactivate).Methods(http.MethodDelete)

	if svcs.Mail != nil {
		emailH := NewEmailHandler(svcs.Mail)
		api.HandleFunc("/email/test", emailH.SendTest).Methods(http.MethodPost)
	}

	if cfg.Images != nil {
		imageH := NewImageHandler(cfg.Images)
		r.HandleFunc("/uploads/{key:.+}", imageH.Download).Methods(http.MethodGet)
	}

	auth := &authenticator{auth: svcs.Auth, cookieName: cfg.CookieName}
	r.Use(auth.middleware)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
		handlers.ExposedHeaders([]string{"X-Request-ID"}),
		handlers.AllowCredentials(),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(false),
	)

	return requestID(accessLog(recovery(cors(r))))
}

type recoveryLogger struct{}

func (recoveryLogger) Println(args ...any) {
	logger.Error("Recovered from panic in HTTP handler", "panic", args)
}
