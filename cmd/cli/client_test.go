package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

func withServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	prev := serverURL
	serverURL = srv.URL
	t.Cleanup(func() { serverURL = prev })
	t.Setenv("MEDOPS_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
}

func TestClientSendsTokenAndDecodes(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in domain.TaskInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.Task{ID: "7", Title: in.Title})
	})
	require.NoError(t, saveToken("abc"))

	var out domain.Task
	err := newClient().do(http.MethodPost, "/api/tasks", domain.TaskInput{Title: "Restock"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "7", out.ID)
	assert.Equal(t, "Restock", out.Title)
}

func TestClientAPIError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
	})

	err := newClient().do(http.MethodGet, "/api/reload", nil, nil)
	require.Error(t, err)
	assert.True(t, isStatus(err, http.StatusForbidden))
	assert.False(t, isStatus(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "forbidden")
}

func TestClientPlainTextError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := newClient().do(http.MethodGet, "/x", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestClientNoContent(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out domain.Task
	assert.NoError(t, newClient().do(http.MethodDelete, "/api/tasks/1", nil, &out))
}

func TestTokenFileLifecycle(t *testing.T) {
	t.Setenv("MEDOPS_TOKEN_FILE", filepath.Join(t.TempDir(), "nested", "token"))

	assert.Empty(t, loadToken())
	require.NoError(t, saveToken("tok\n"))
	assert.Equal(t, "tok", loadToken())
	require.NoError(t, clearToken())
	assert.Empty(t, loadToken())
	require.NoError(t, clearToken())
}

func TestParseDayTime(t *testing.T) {
	got, err := parseDayTime("2025-01-15 09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 15, 9, 30, 0, 0, time.Local), got)

	_, err = parseDayTime("2025-01-15")
	assert.Error(t, err)
	_, err = parseDay("15/01/2025")
	assert.Error(t, err)
	assert.Equal(t, "-", formatDay(time.Time{}))
}

func TestTasksListCommand(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tasks", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]domain.Task{
			{ID: "1", Title: "Round", Status: domain.TaskPending, Priority: domain.PriorityHigh},
			{ID: "2", Title: "Chart", Status: domain.TaskComplete, Priority: domain.PriorityLow},
		})
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--server", serverURL, "tasks", "list", "--status", "pending"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		taskFilter = ""
	})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Round")
	assert.NotContains(t, out.String(), "Chart")
}
