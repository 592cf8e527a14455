package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func newLogger() *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	return logger
}

func main() {
	mustLoadEnv()
	cfg := loadConfig()

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	// Quieter GORM logger
	gLogger := gormlogger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: 1500 * time.Millisecond,
			LogLevel:      gormlogger.Warn,
			Colorful:      true,
		},
	)

	db, err := openGorm(cfg.DatabaseURL, gLogger)
	if err != nil {
		log.Fatalf("[DB] connect failed: %v", err)
	}
	if err := autoMigrate(db); err != nil {
		log.Fatalf("[DB] migrate failed: %v", err)
	}
	logger.Info("database ready")

	store := NewGormStore(db)
	cache := NewProfileCache(store, logger)
	files, err := NewFSObjectStore(cfg.UploadDir, cfg.PublicURL)
	if err != nil {
		log.Fatalf("[uploads] %v", err)
	}
	app := NewApp(cfg, store, cache, files, logger)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("API listening", zap.String("addr", addr), zap.String("cors_origin", cfg.CORSOrigin))
	log.Fatal(srv.ListenAndServe())
}

func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	// allow comma-separated list of origins
	var origins []string
	for _, p := range strings.Split(a.cfg.CORSOrigin, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// Finish bare OPTIONS quickly
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	// ---- Routes
	// Auth
	r.Post("/api/auth/register", a.handleAuthRegister)
	r.Post("/api/auth/sign-in", a.handleAuthSignIn)
	r.Post("/api/auth/sign-out", a.handleAuthSignOut)
	r.Get("/api/auth/me", a.handleAuthMe)

	// Prompts
	r.Get("/api/prompts", a.handleListPrompts)
	r.Get("/api/prompts/mine", a.handleMyPrompts)
	r.Post("/api/prompts", a.handleCreatePrompt)
	r.Delete("/api/prompts/{id}", a.handleDeletePrompt)
	r.Post("/api/prompts/{id}/like", a.handleToggleLike)

	// Comments
	r.Get("/api/prompts/{id}/comments", a.handleListComments)
	r.Post("/api/prompts/{id}/comments", a.handleAddComment)
	r.Delete("/api/comments/{id}", a.handleDeleteComment)

	// Profile
	r.Put("/api/profile", a.handleUpdateProfile)
	r.Post("/api/profile/avatar", a.handleAvatarUpload)

	// Admin
	r.Get("/api/admin/users", a.handleAdminListUsers)
	r.Put("/api/admin/users/{id}/role", a.handleAdminSetRole)

	// Uploaded avatars
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(a.cfg.UploadDir))))

	// Health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	return r
}
