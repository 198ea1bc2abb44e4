// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoneboard/zoneboard/internal/config"
	"github.com/zoneboard/zoneboard/internal/observability"
	"github.com/zoneboard/zoneboard/internal/web"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.DatabaseURL = "postgres://localhost/zoneboard_test"
	cfg.MetricsAddr = ""
	return &cfg
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	return cmd
}

func testDeps(pool *mockPool, webSrv *mockWebServer, obsSrv *mockObservabilityServer) *ServeDeps {
	return &ServeDeps{
		StoreOpener: func(_ context.Context, _ string) (Pool, error) {
			return pool, nil
		},
		WebServerFactory: func(_ string, _ *web.Handler, _ string, _ []string) (WebServer, error) {
			return webSrv, nil
		},
		ObservabilityServerFactory: func(_ string, _ observability.ReadinessChecker) ObservabilityServer {
			return obsSrv
		},
	}
}

func TestRunServe_GracefulShutdownOnContextCancel(t *testing.T) {
	pool := &mockPool{}
	webSrv := &mockWebServer{}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := runServeWithDeps(ctx, testConfig(), newTestCmd(), testDeps(pool, webSrv, nil))

	require.NoError(t, err)
	assert.True(t, webSrv.wasStopped())
	assert.True(t, pool.isClosed())
}

func TestRunServe_StoreOpenFailure(t *testing.T) {
	deps := &ServeDeps{
		StoreOpener: func(_ context.Context, _ string) (Pool, error) {
			return nil, errors.New("connection refused")
		},
	}

	err := runServeWithDeps(context.Background(), testConfig(), newTestCmd(), deps)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRunServe_WebStartFailureStopsObservability(t *testing.T) {
	pool := &mockPool{}
	webSrv := &mockWebServer{
		startFunc: func() (<-chan error, error) {
			return nil, errors.New("address in use")
		},
	}
	obsSrv := &mockObservabilityServer{
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
	}

	cfg := testConfig()
	cfg.MetricsAddr = "127.0.0.1:9100"

	err := runServeWithDeps(context.Background(), cfg, newTestCmd(), testDeps(pool, webSrv, obsSrv))

	require.Error(t, err)
	assert.True(t, obsSrv.wasStopped())
	assert.True(t, pool.isClosed())
}

func TestRunServe_WebServerErrorTriggersShutdown(t *testing.T) {
	pool := &mockPool{}
	errCh := make(chan error, 1)
	errCh <- errors.New("listener blew up")
	webSrv := &mockWebServer{
		startFunc: func() (<-chan error, error) {
			return errCh, nil
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := runServeWithDeps(ctx, testConfig(), newTestCmd(), testDeps(pool, webSrv, nil))

	require.NoError(t, err)
	assert.True(t, webSrv.wasStopped())
}

func TestRunServe_ObservabilityRunsAndStops(t *testing.T) {
	pool := &mockPool{}
	webSrv := &mockWebServer{}
	obsSrv := &mockObservabilityServer{
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
	}

	cfg := testConfig()
	cfg.MetricsAddr = "127.0.0.1:9100"

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := runServeWithDeps(ctx, cfg, newTestCmd(), testDeps(pool, webSrv, obsSrv))

	require.NoError(t, err)
	assert.True(t, obsSrv.wasStopped())
	assert.True(t, webSrv.wasStopped())
}
