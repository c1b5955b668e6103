package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBreaker(name string) (*Client, CircuitBreakerConfig) {
	cfg := CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		MinRequests: 3,
		FailureRate: 0.5,
	}
	client := New(Config{Timeout: 5 * time.Second, MaxRetries: 0})
	return client, cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBreakerClient_PassesThroughSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, cfg := newTestBreaker("breaker-success")
	b := NewBreakerClient(client, cfg, discardLogger())

	resp, err := b.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBreakerClient_ServerErrorCountsAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, cfg := newTestBreaker("breaker-server-error")
	b := NewBreakerClient(client, cfg, discardLogger())

	_, err := b.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusInternalServerError, srvErr.StatusCode)
}

func TestBreakerClient_OpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, cfg := newTestBreaker("breaker-opens")
	b := NewBreakerClient(client, cfg, discardLogger())

	for i := 0; i < 3; i++ {
		_, err := b.Get(context.Background(), srv.URL)
		require.Error(t, err)
		assert.False(t, IsCircuitOpen(err))
	}

	// The failure rate is now above the threshold; the breaker rejects
	// requests without touching the downstream.
	_, err := b.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, IsCircuitOpen(err))
}

func TestIsCircuitOpen_OtherErrors(t *testing.T) {
	assert.False(t, IsCircuitOpen(nil))
	assert.False(t, IsCircuitOpen(&ServerError{StatusCode: 500}))
}
