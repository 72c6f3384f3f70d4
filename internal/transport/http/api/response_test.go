package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListSetsTotalCount(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, []string{"a"}, 7, "req-1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "7", rec.Header().Get("X-Total-Count"))

	rec = httptest.NewRecorder()
	List(rec, []string{}, -1, "req-1")
	require.Empty(t, rec.Header().Get("X-Total-Count"))
}

func TestWriteJSONFallsBackOnEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]any{"bad": make(chan int)}, "req-2")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.Equal(t, "internal", env.Error.Code)
	require.Equal(t, "req-2", env.RequestID)
}
