package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"
)

func TestServer_ShutdownRunsHooksInReverseOrder(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := New(handler, Options{ShutdownTimeout: 5 * time.Second}, logger)

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string, err error) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return err
		}
	}
	srv.OnShutdown("postgres", record("postgres", nil))
	srv.OnShutdown("redis", record("redis", errors.New("already closed")))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	cancel()
	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if err == nil || err.Error() != "redis: already closed" {
		t.Errorf("Serve error = %v, want redis: already closed", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "redis" || order[1] != "postgres" {
		t.Errorf("shutdown order = %v, want [redis postgres]", order)
	}
}

func TestServer_Addr(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{Port: 8080}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if got := srv.Addr(); got != ":8080" {
		t.Errorf("Addr() = %q, want :8080", got)
	}
}
