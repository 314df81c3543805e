package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestHealthCheckHandler_OK(t *testing.T) {
	c := &HealthController{db: fakePinger{}}

	rec := httptest.NewRecorder()
	c.HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
}

func TestHealthCheckHandler_DBUnreachable(t *testing.T) {
	c := &HealthController{db: fakePinger{err: errors.New("dial tcp: connection refused")}}

	rec := httptest.NewRecorder()
	c.HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, utils.ErrCodeInternal, body.Code)
	assert.Equal(t, "Database unreachable", body.Message)
	// The raw driver error is for the logs, never the response body.
	assert.Nil(t, body.Details)
}
