// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package main

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zoneboard/zoneboard/internal/observability"
)

// mockPool implements Pool for testing.
type mockPool struct {
	mu      sync.Mutex
	closed  bool
	pingErr error
}

func (m *mockPool) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockPool) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, pgx.ErrNoRows
}

func (m *mockPool) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return nil
}

func (m *mockPool) Ping(_ context.Context) error {
	return m.pingErr
}

func (m *mockPool) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *mockPool) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// mockWebServer implements WebServer for testing.
type mockWebServer struct {
	startFunc func() (<-chan error, error)
	stopFunc  func(ctx context.Context) error

	mu      sync.Mutex
	started bool
	stopped bool
}

func (m *mockWebServer) Start() (<-chan error, error) {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()
	if m.startFunc != nil {
		return m.startFunc()
	}
	ch := make(chan error, 1)
	return ch, nil
}

func (m *mockWebServer) Stop(ctx context.Context) error {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
	if m.stopFunc != nil {
		return m.stopFunc(ctx)
	}
	return nil
}

func (m *mockWebServer) Addr() string {
	return "127.0.0.1:8000"
}

func (m *mockWebServer) wasStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// mockObservabilityServer implements ObservabilityServer for testing.
type mockObservabilityServer struct {
	startFunc func() (<-chan error, error)
	metrics   *observability.Metrics

	mu      sync.Mutex
	stopped bool
}

func (m *mockObservabilityServer) Start() (<-chan error, error) {
	if m.startFunc != nil {
		return m.startFunc()
	}
	ch := make(chan error, 1)
	return ch, nil
}

func (m *mockObservabilityServer) Stop(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	return nil
}

func (m *mockObservabilityServer) Addr() string {
	return "127.0.0.1:9100"
}

func (m *mockObservabilityServer) Metrics() *observability.Metrics {
	return m.metrics
}

func (m *mockObservabilityServer) wasStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}
