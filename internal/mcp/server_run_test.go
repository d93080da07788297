package mcp

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Run_StdioMode(t *testing.T) {
	s, _ := newTestServer(t)
	stdin, writer := io.Pipe()
	defer writer.Close()
	s.stdin = stdin
	s.stdout = io.Discard

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestServer_Run_ServerMode(t *testing.T) {
	s, _ := newTestServer(t)
	s.config.Mode = "server"
	s.config.Host = "127.0.0.1"
	s.config.Port = 0
	s.ready = make(chan net.Addr, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	var addr net.Addr
	select {
	case addr = <-s.ready:
	case err := <-done:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not shut down")
	}
}

func TestServer_Run_ServerMode_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s, _ := newTestServer(t)
	s.config.Mode = "server"
	s.config.Host = "127.0.0.1"
	s.config.Port = ln.Addr().(*net.TCPAddr).Port

	err = s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
