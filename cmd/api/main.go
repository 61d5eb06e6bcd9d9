package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	authsb "pet-calendar/internal/adapters/auth/supabase"
	filesb "pet-calendar/internal/adapters/files/supabase"
	"pet-calendar/internal/platform/logger"
	"pet-calendar/internal/ports/auth"
	"pet-calendar/internal/ports/files"
	"pet-calendar/internal/router"

	"github.com/joho/godotenv"
)

// @title Pet Calendar API
// @version 1.0
// @description API de mascotas: perfiles, calendario de eventos con reminders, contactos de veterinaria y notificaciones.
// @BasePath /
func main() {
	// .env es opcional (dev); en prod las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	opts := router.Options{Logger: log}

	// Supabase opcional: sin SUPABASE_URL queda el modo dev (X-Debug-User-ID).
	if baseURL := strings.TrimSpace(os.Getenv("SUPABASE_URL")); baseURL != "" {
		opts.AuthVerifier = buildVerifier(log, baseURL)
		opts.FileStorage = buildStorage(log, baseURL)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

func buildVerifier(log logger.Logger, baseURL string) auth.AuthVerifier {
	anonKey := strings.TrimSpace(os.Getenv("SUPABASE_ANON_KEY"))
	if anonKey == "" {
		log.Warn("SUPABASE_URL set but SUPABASE_ANON_KEY missing, auth disabled", nil)
		return nil
	}

	client, err := authsb.NewClient(authsb.Config{
		BaseURL: baseURL,
		APIKey:  anonKey,
	})
	if err != nil {
		log.Warn("supabase auth client init failed", map[string]any{"err": err.Error()})
		return nil
	}
	return authsb.NewVerifier(client)
}

func buildStorage(log logger.Logger, baseURL string) files.Storage {
	serviceKey := strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_KEY"))
	if serviceKey == "" {
		log.Warn("SUPABASE_URL set but SUPABASE_SERVICE_KEY missing, using in-memory files", nil)
		return nil
	}

	storage, err := filesb.NewStorage(filesb.Config{
		BaseURL:    baseURL,
		ServiceKey: serviceKey,
		Bucket:     os.Getenv("SUPABASE_BUCKET"),
	})
	if err != nil {
		log.Warn("supabase storage init failed", map[string]any{"err": err.Error()})
		return nil
	}
	return storage
}
