package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AeroOps/internal/config"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
)

func TestNewServer_Defaults(t *testing.T) {
	s := NewServer(config.ServerConfig{Port: 8080}, http.NotFoundHandler(), logging.NewNopLogger())

	assert.Equal(t, ":8080", s.Addr())
	assert.Equal(t, 15*time.Second, s.httpServer.ReadTimeout)
	assert.Equal(t, 60*time.Second, s.httpServer.WriteTimeout)
	assert.Equal(t, 30*time.Second, s.shutdownTimeout)
}

func TestNewServer_ConfiguredTimeouts(t *testing.T) {
	s := NewServer(config.ServerConfig{
		Host: "127.0.0.1", Port: 9000,
		ReadTimeout: time.Second, WriteTimeout: 2 * time.Second, IdleTimeout: 3 * time.Second, ShutdownTimeout: 4 * time.Second,
	}, http.NotFoundHandler(), logging.NewNopLogger())

	assert.Equal(t, "127.0.0.1:9000", s.Addr())
	assert.Equal(t, time.Second, s.httpServer.ReadTimeout)
	assert.Equal(t, 2*time.Second, s.httpServer.WriteTimeout)
	assert.Equal(t, 3*time.Second, s.httpServer.IdleTimeout)
	assert.Equal(t, 4*time.Second, s.shutdownTimeout)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	s := NewServer(config.ServerConfig{}, handler, logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- s.Serve(l) }()

	resp, err := http.Get("http://" + l.Addr().String())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	require.NoError(t, s.Shutdown(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

//Personal.AI order the ending
