package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"opto-backend/internal/config"
	"opto-backend/internal/handlers"
	"opto-backend/internal/middleware"
)

// Handlers bundles everything SetupRoutes wires into the mux
type Handlers struct {
	Auth           *handlers.AuthHandler
	Profiles       *handlers.ProfileHandler
	Transactions   *handlers.TransactionHandler
	Chat           *handlers.ChatHandler
	ForgotPassword *handlers.ForgotPasswordHandler
	GoogleAuth     *handlers.GoogleAuthHandler
	Health         *handlers.HealthHandler
}

// SetupRoutes configures all application routes on a fresh mux
func SetupRoutes(h Handlers, cfg *config.Config) *http.ServeMux {
	mux := http.NewServeMux()
	jwt := &cfg.JWT

	// Health check routes
	mux.HandleFunc("GET /healthz", h.Health.HealthCheck)
	mux.HandleFunc("GET /livez", h.Health.LivenessCheck)
	mux.HandleFunc("GET /readyz", h.Health.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("POST /api/auth/signup", h.Auth.Signup)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("GET /api/auth/me", middleware.AuthMiddleware(h.Auth.Me, jwt))
	mux.HandleFunc("POST /api/auth/forgot-password", h.ForgotPassword.ForgotPassword)
	mux.HandleFunc("POST /api/auth/verify-reset-code", h.ForgotPassword.VerifyResetCode)
	mux.HandleFunc("POST /api/auth/reset-password", h.ForgotPassword.ResetPassword)
	mux.HandleFunc("GET /api/auth/google/login", h.GoogleAuth.Login)
	mux.HandleFunc("GET /api/auth/google/callback", h.GoogleAuth.Callback)

	// Profile routes
	mux.HandleFunc("GET /api/profiles", h.Profiles.List)
	mux.HandleFunc("PUT /api/profiles/me", middleware.AuthMiddleware(h.Profiles.UpdateMe, jwt))
	mux.HandleFunc("POST /api/profiles/me/avatar", middleware.AuthMiddleware(h.Profiles.UploadAvatar, jwt))
	mux.HandleFunc("POST /api/profiles/me/cover", middleware.AuthMiddleware(h.Profiles.UploadCover, jwt))
	mux.HandleFunc("GET /api/profiles/{id}", h.Profiles.Get)

	// Transaction routes
	mux.HandleFunc("GET /api/transactions", h.Transactions.List)
	mux.HandleFunc("POST /api/transactions", h.Transactions.Create)
	mux.HandleFunc("GET /api/transactions/{id}", h.Transactions.Get)
	mux.HandleFunc("PUT /api/transactions/{id}", h.Transactions.Update)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.Transactions.Delete)

	// AI chat routes
	mux.HandleFunc("POST /api/chat", h.Chat.Chat)
	mux.HandleFunc("GET /api/chat/status", h.Chat.Status)

	// Uploaded images
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Upload.Dir))))

	// Swagger UI
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("/", rootHandler)

	return mux
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Opto backend is running."))
}
