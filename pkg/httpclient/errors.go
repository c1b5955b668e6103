package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker/v2"

	apperrors "github.com/m-akash/e-commerce-inventory-api/pkg/errors"
)

// ServerError indicates a 5xx response from a downstream service. It is
// returned inside the circuit breaker so that 5xx responses count toward
// the failure rate.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status %d", e.StatusCode)
}

// IsCircuitOpen reports whether the error was caused by an open circuit
// breaker rejecting the request.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// ParseResponseError converts a non-2xx response into an application error.
// The body is read (up to a small limit) to extract a message if the
// downstream returned a JSON error payload.
func ParseResponseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := http.StatusText(resp.StatusCode)
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error.Message != "" {
			message = payload.Error.Message
		} else if payload.Message != "" {
			message = payload.Message
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFoundMsg(message)
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.BadRequest(message)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(message)
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.Forbidden(message)
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Wrap(apperrors.ErrConflict, message)
	case resp.StatusCode >= 500:
		return apperrors.Wrap(apperrors.ErrServiceUnavail, message)
	default:
		return apperrors.Internal(fmt.Errorf("unexpected status %d: %s", resp.StatusCode, message))
	}
}
