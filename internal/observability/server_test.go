// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package observability_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoneboard/zoneboard/internal/observability"
)

func startServer(t *testing.T, ready observability.ReadinessChecker) *observability.Server {
	t.Helper()
	srv := observability.NewServer("127.0.0.1:0", ready)
	_, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, srv.Stop(ctx))
	})
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // local test server
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_Liveness(t *testing.T) {
	srv := startServer(t, nil)

	status, body := get(t, "http://"+srv.Addr()+"/healthz/liveness")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)
}

func TestServer_Readiness(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := startServer(t, func() bool { return true })
		status, _ := get(t, "http://"+srv.Addr()+"/healthz/readiness")
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("not ready", func(t *testing.T) {
		srv := startServer(t, func() bool { return false })
		status, body := get(t, "http://"+srv.Addr()+"/healthz/readiness")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "not ready\n", body)
	})
}

func TestServer_Metrics(t *testing.T) {
	srv := startServer(t, nil)

	srv.Metrics().RequestsTotal.WithLabelValues("signup", "201").Inc()
	srv.Metrics().ProvisionFailures.Inc()

	status, body := get(t, "http://"+srv.Addr()+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "zoneboard_requests_total")
	assert.Contains(t, body, "zoneboard_provision_failures_total")
}

func TestServer_DoubleStartFails(t *testing.T) {
	srv := startServer(t, nil)

	_, err := srv.Start()
	assert.Error(t, err)
}
