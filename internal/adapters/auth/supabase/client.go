package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-calendar/internal/platform/httpclient"
	"pet-calendar/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("supabase client not configured")
	ErrUnauthorized  = errors.New("supabase unauthorized")
	ErrUpstream      = errors.New("supabase upstream error")
)

// Config del cliente de auth (GoTrue).
// BaseURL es la URL del proyecto (https://<ref>.supabase.co) y APIKey la
// anon key; normalmente vienen de env en quien lo instancia.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// GetUser valida el access token contra GoTrue (/auth/v1/user) y devuelve
// los claims del usuario dueño del token.
func (c *Client) GetUser(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Aud   string `json:"aud"`
	}

	err := c.http.DoJSON(ctx, "GET", "/auth/v1/user", map[string]string{
		"apikey":        c.apiKey,
		"Authorization": "Bearer " + token,
	}, nil, &out)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && (he.StatusCode == 401 || he.StatusCode == 403) {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, errors.New("supabase response missing user id")
	}

	return auth.Claims{
		UserID:   out.ID,
		Email:    strings.TrimSpace(out.Email),
		TenantID: strings.TrimSpace(out.Aud),
	}, nil
}
