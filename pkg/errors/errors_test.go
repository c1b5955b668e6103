package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found constructor", NotFound("product", "p-1"), http.StatusNotFound},
		{"not found message", NotFoundMsg("category c-1 not found"), http.StatusNotFound},
		{"bad request", BadRequest("price must not be negative"), http.StatusBadRequest},
		{"forbidden", Forbidden("only the owner may update this product"), http.StatusForbidden},
		{"unauthorized", Unauthorized("missing token"), http.StatusUnauthorized},
		{"conflict", Conflict("category", "name", "Electronics"), http.StatusConflict},
		{"internal", Internal(errors.New("boom")), http.StatusInternalServerError},
		{"wrapped sentinel", fmt.Errorf("get product: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("update: %w", Forbidden("nope")), http.StatusForbidden},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := NotFound("product", "p-1")
	assert.ErrorIs(t, err, ErrNotFound)

	wrapped := Wrap(err, "load product")
	assert.ErrorIs(t, wrapped, ErrNotFound)

	var appErr *AppError
	assert.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestAppError_Error(t *testing.T) {
	err := Conflict("category", "name", "Books")
	assert.Contains(t, err.Error(), "CONFLICT")
	assert.Contains(t, err.Error(), `category with name "Books" already exists`)
}
