package supabase

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-calendar/internal/platform/httpclient"
	"pet-calendar/internal/ports/files"
)

var (
	ErrNotConfigured = errors.New("supabase storage not configured")
)

// Config del bucket de archivos (Supabase Storage).
// ServiceKey (no la anon key): los uploads van server-side.
type Config struct {
	BaseURL    string
	ServiceKey string
	Bucket     string
	Timeout    time.Duration
}

// Storage implementa files.Storage contra Supabase Storage.
type Storage struct {
	http       *httpclient.Client
	serviceKey string
	bucket     string
}

func NewStorage(cfg Config) (*Storage, error) {
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}

	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		bucket = "uploads"
	}

	return &Storage{
		http:       hc,
		serviceKey: strings.TrimSpace(cfg.ServiceKey),
		bucket:     bucket,
	}, nil
}

var _ files.Storage = (*Storage)(nil)

func (s *Storage) IsConfigured() bool {
	return s != nil && s.http != nil && s.http.BaseURL != "" && s.serviceKey != ""
}

func (s *Storage) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if !s.IsConfigured() {
		return "", ErrNotConfigured
	}
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" || len(data) == 0 {
		return "", errors.New("path and data required")
	}

	_, err := s.http.DoRaw(ctx, "POST", "/storage/v1/object/"+s.bucket+"/"+path, map[string]string{
		"Authorization": "Bearer " + s.serviceKey,
		// upsert: re-subir el mismo path pisa el archivo anterior
		"x-upsert": "true",
	}, contentType, data)
	if err != nil {
		return "", err
	}
	return path, nil
}

func (s *Storage) PublicURL(path string) string {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if s == nil || s.http == nil || s.http.BaseURL == "" || path == "" {
		return ""
	}
	return s.http.BaseURL + "/storage/v1/object/public/" + s.bucket + "/" + path
}
