// Package httpapi implements storage.Storage against a remote blob service
// over HTTP. Uploads go through a retrying client wrapped in a circuit
// breaker so a degraded blob service cannot stall product requests.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"

	"github.com/m-akash/e-commerce-inventory-api/internal/storage"
	apperrors "github.com/m-akash/e-commerce-inventory-api/pkg/errors"
	"github.com/m-akash/e-commerce-inventory-api/pkg/httpclient"
)

// Config holds the blob service endpoints.
type Config struct {
	// APIURL is the base URL of the blob service API, e.g. http://blobs:8085.
	APIURL string
	// PublicBaseURL is the base URL blobs are served from, e.g. a CDN host.
	PublicBaseURL string
}

// Storage implements storage.Storage over the blob service HTTP API.
type Storage struct {
	client *httpclient.BreakerClient
	cfg    Config
	logger *slog.Logger
}

// New creates a blob-service-backed storage.
func New(client *httpclient.BreakerClient, cfg Config, logger *slog.Logger) *Storage {
	return &Storage{client: client, cfg: cfg, logger: logger}
}

// Upload stores the object via PUT /objects/{key} and returns the public URL
// reported by the blob service.
func (s *Storage) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	url := fmt.Sprintf("%s/objects/%s", s.cfg.APIURL, input.Key)

	resp, err := s.client.Put(ctx, url, input.ContentType, input.Data)
	if err != nil {
		if httpclient.IsCircuitOpen(err) {
			return nil, apperrors.Wrap(apperrors.ErrServiceUnavail, "blob service unavailable")
		}
		return nil, fmt.Errorf("upload object %s: %w", input.Key, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if payload.URL == "" {
		payload.URL = s.publicURL(input.Key)
	}

	return &storage.UploadResult{Key: input.Key, URL: payload.URL}, nil
}

// Delete removes the object via DELETE /objects/{key}. A 404 from the blob
// service is treated as success since the object is already gone.
func (s *Storage) Delete(ctx context.Context, key string) error {
	url := fmt.Sprintf("%s/objects/%s", s.cfg.APIURL, key)

	resp, err := s.client.Delete(ctx, url)
	if err != nil {
		if httpclient.IsCircuitOpen(err) {
			return apperrors.Wrap(apperrors.ErrServiceUnavail, "blob service unavailable")
		}
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	defer drainAndClose(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return httpclient.ParseResponseError(resp)
	}
}

// List returns the keys stored under the given prefix via
// GET /objects?prefix={prefix}.
func (s *Storage) List(ctx context.Context, prefix string) ([]string, error) {
	url := fmt.Sprintf("%s/objects?prefix=%s", s.cfg.APIURL, neturl.QueryEscape(prefix))

	resp, err := s.client.Get(ctx, url)
	if err != nil {
		if httpclient.IsCircuitOpen(err) {
			return nil, apperrors.Wrap(apperrors.ErrServiceUnavail, "blob service unavailable")
		}
		return nil, fmt.Errorf("list objects %s: %w", prefix, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp)
	}

	var payload struct {
		Keys []string `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}

	return payload.Keys, nil
}

// GetURL returns the public URL for the given key.
func (s *Storage) GetURL(_ context.Context, key string) (string, error) {
	return s.publicURL(key), nil
}

func (s *Storage) publicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.cfg.PublicBaseURL, key)
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
