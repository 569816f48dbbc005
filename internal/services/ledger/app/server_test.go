package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOpenStoreDrivers(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		path   string
	}{
		{name: "default is sqlite", driver: "", path: "ledger.db"},
		{name: "sqlite", driver: "sqlite", path: "ledger.db"},
		{name: "bbolt", driver: "bbolt", path: "ledger.bolt"},
		{name: "memory", driver: "memory"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := tc.path
			if path != "" {
				path = filepath.Join(t.TempDir(), path)
			}

			store, err := OpenStore(context.Background(), tc.driver, path)
			if err != nil {
				t.Fatalf("open store: %v", err)
			}
			defer store.Close()

			if _, err := store.List(context.Background()); err != nil {
				t.Fatalf("list campaigns: %v", err)
			}
		})
	}
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	if _, err := OpenStore(context.Background(), "etcd", ""); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestServerServesAndShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server, err := New(ctx, Config{
		Addr:          "127.0.0.1:0",
		StorageDriver: DriverMemory,
	}, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx)
	}()

	baseURL := "http://" + server.Addr()

	deadline := time.Now().Add(5 * time.Second)
	for {
		response, err := http.Get(baseURL + "/healthz")
		if err == nil {
			response.Body.Close()
			if response.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("server did not become healthy")
		}
		time.Sleep(10 * time.Millisecond)
	}

	body, err := json.Marshal(map[string]any{
		"proposer":      "proposer-1",
		"title":         "Community Well",
		"description":   "Dig a well for the north district",
		"goal":          100,
		"deadline_days": 1,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	response, err := http.Post(baseURL+"/campaigns", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", response.StatusCode)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServerRejectsBadDriver(t *testing.T) {
	_, err := New(context.Background(), Config{
		Addr:          "127.0.0.1:0",
		StorageDriver: "flatfile",
	}, nil)
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if want := fmt.Sprintf("storage driver %q is not supported", "flatfile"); !strings.Contains(err.Error(), want) {
		t.Fatalf("expected driver error, got %v", err)
	}
}
