// Package db wraps the backend's record API (PostgREST). The backend
// owns the schema and the authorization rules; this layer only issues
// queries and maps rejections onto the failure taxonomy.
package db

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/laplataremata/remata-engine/internal/auctionerrors"
	"github.com/laplataremata/remata-engine/internal/config"
)

type Client struct {
	baseURL string
	anonKey string
	probe   *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.SupabaseURL,
		anonKey: cfg.SupabaseAnonKey,
		probe:   &http.Client{Timeout: 5 * time.Second},
	}
}

// rest returns a PostgREST client for the given token. With an empty
// token the anon key is used, which the backend's rules treat as a
// public read-only caller.
func (c *Client) rest(token string) *postgrest.Client {
	restURL := c.baseURL + "/rest/v1"

	headers := map[string]string{
		"apikey": c.anonKey,
	}

	client := postgrest.NewClient(restURL, "", headers)

	// Fallback
	if token != "" {
		client.SetAuthToken(token)
	} else {
		client.SetAuthToken(c.anonKey)
	}

	return client
}

// Health probes the record API with a plain request before any query
// is attempted, so an unreachable backend surfaces as a single
// ServiceUnavailable diagnostic instead of an SDK error.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return auctionerrors.Wrap(auctionerrors.ServiceUnavailable, unreachableMessage(c.baseURL), err)
	}
	req.Header.Set("apikey", c.anonKey)

	res, err := c.probe.Do(req)
	if err != nil {
		return auctionerrors.Wrap(auctionerrors.ServiceUnavailable, unreachableMessage(c.baseURL), err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		return auctionerrors.Wrap(auctionerrors.ServiceUnavailable, unreachableMessage(c.baseURL),
			fmt.Errorf("health probe returned status %d", res.StatusCode))
	}
	return nil
}

func unreachableMessage(baseURL string) string {
	return fmt.Sprintf("No se pudo conectar al servicio en %s. Asegúrate de que el servidor esté en ejecución.", baseURL)
}
