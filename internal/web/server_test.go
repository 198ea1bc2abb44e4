// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestServerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.users.On("List", mock.Anything).Return(nil, nil)

	handler, err := NewHandler(mustService(t, env), env.zones, nil, slog.Default())
	require.NoError(t, err)

	srv, err := NewServer("127.0.0.1:0", handler, "", nil)
	require.NoError(t, err)

	errCh, err := srv.Start()
	require.NoError(t, err)
	require.NotEmpty(t, srv.Addr())

	client := &http.Client{Timeout: 5 * time.Second}
	defer client.CloseIdleConnections()

	resp, err := client.Get("http://" + srv.Addr() + "/users")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	select {
	case serveErr, ok := <-errCh:
		if ok {
			t.Fatalf("unexpected server error: %v", serveErr)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("error channel not closed after stop")
	}
}

func TestServerDoubleStart(t *testing.T) {
	env := newTestEnv(t)

	handler, err := NewHandler(mustService(t, env), env.zones, nil, slog.Default())
	require.NoError(t, err)

	srv, err := NewServer("127.0.0.1:0", handler, "", nil)
	require.NoError(t, err)

	_, err = srv.Start()
	require.NoError(t, err)

	_, err = srv.Start()
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
}

func TestServerStopWithoutStart(t *testing.T) {
	env := newTestEnv(t)

	handler, err := NewHandler(mustService(t, env), env.zones, nil, slog.Default())
	require.NoError(t, err)

	srv, err := NewServer("127.0.0.1:0", handler, "", nil)
	require.NoError(t, err)

	assert.NoError(t, srv.Stop(context.Background()))
}

func TestNewServerRequiresHandler(t *testing.T) {
	_, err := NewServer(":0", nil, "", nil)
	assert.Error(t, err)
}
