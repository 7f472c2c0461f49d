package main

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tastytrail/session"
)

type closeRecorder struct {
	*session.MemoryStore
	closed atomic.Bool
}

func (c *closeRecorder) Close(context.Context) error {
	c.closed.Store(true)
	return nil
}

func TestShutdownClosesStoreAfterDraining(t *testing.T) {
	store := &closeRecorder{MemoryStore: session.NewMemoryStore()}

	started := make(chan struct{})
	release := make(chan struct{})
	var closedDuringRequest atomic.Bool
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		<-release
		closedDuringRequest.Store(store.closed.Load())
		w.WriteHeader(http.StatusOK)
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go server.Serve(ln)

	reqDone := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err == nil {
			resp.Body.Close()
		}
		reqDone <- err
	}()
	<-started

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- shutdown(server, store, zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, store.closed.Load(), "store stays open while a request is in flight")
	close(release)

	select {
	case err := <-shutdownDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not return")
	}
	assert.True(t, store.closed.Load(), "store is closed by the time shutdown returns")
	assert.False(t, closedDuringRequest.Load())
	assert.NoError(t, <-reqDone)
}
