package errprocess

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"media_upload_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	logger.SetNewNop()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unauthorized", New(Unauthorized, "Unauthorized"), http.StatusUnauthorized},
		{"bad input", New(BadInput, "No file uploaded"), http.StatusBadRequest},
		{"upstream", Set(UpstreamFailure, "service down", errors.New("timeout")), http.StatusInternalServerError},
		{"persistence", New(PersistenceFailure, "db"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", New(BadInput, "x")), http.StatusBadRequest},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestSetKeepsCause(t *testing.T) {
	logger.SetNewNop()
	cause := errors.New("connection refused")

	err := Set(PersistenceFailure, "create video failed", cause)

	assert.Equal(t, "create video failed", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, PersistenceFailure))
	assert.False(t, Is(err, UpstreamFailure))
}
