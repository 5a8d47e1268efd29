package gateway

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/config"
)

func chainLookupConfig(baseURL string) config.ChainLookupConfig {
	return config.ChainLookupConfig{
		BaseURL:        baseURL,
		ProjectID:      "test-project",
		RequestTimeout: 2 * time.Second,
		RateLimitRPS:   100,
	}
}

func TestChainLookup_ResolveHandle(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("resolves to first holding address", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(`[{"address":"addr1winner","quantity":"1"}]`))
		}))
		defer server.Close()

		g := NewChainLookup(chainLookupConfig(server.URL), logger)

		addr, err := g.ResolveHandle(ctx, "$MyHandle")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if addr != "addr1winner" {
			t.Errorf("expected addr1winner, got %q", addr)
		}

		wantAsset := HandlePolicyID + hex.EncodeToString([]byte("myhandle"))
		if !strings.Contains(gotPath, wantAsset) {
			t.Errorf("expected lookup key %s in path, got %s", wantAsset, gotPath)
		}
	})

	t.Run("dollar prefix is optional", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"address":"addr1winner","quantity":"1"}]`))
		}))
		defer server.Close()

		g := NewChainLookup(chainLookupConfig(server.URL), logger)

		addr, err := g.ResolveHandle(ctx, "myhandle")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if addr != "addr1winner" {
			t.Errorf("expected addr1winner, got %q", addr)
		}
	})

	t.Run("unknown handle maps 404 to ErrHandleNotResolved", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Not Found"}`, http.StatusNotFound)
		}))
		defer server.Close()

		g := NewChainLookup(chainLookupConfig(server.URL), logger)

		_, err := g.ResolveHandle(ctx, "$nosuchhandle")
		if !errors.Is(err, ErrHandleNotResolved) {
			t.Fatalf("expected ErrHandleNotResolved, got %v", err)
		}
	})

	t.Run("empty holder list maps to ErrHandleNotResolved", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		g := NewChainLookup(chainLookupConfig(server.URL), logger)

		_, err := g.ResolveHandle(ctx, "$orphan")
		if !errors.Is(err, ErrHandleNotResolved) {
			t.Fatalf("expected ErrHandleNotResolved, got %v", err)
		}
	})

	t.Run("transport failures pass through unchanged", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		g := NewChainLookup(chainLookupConfig(server.URL), logger)

		_, err := g.ResolveHandle(ctx, "$anything")
		if errors.Is(err, ErrHandleNotResolved) {
			t.Fatal("server error must not masquerade as an unresolved handle")
		}
		if !IsKind(err, KindHTTPError) {
			t.Fatalf("expected http_error, got %v", err)
		}
	})

	t.Run("blank handle never hits the network", func(t *testing.T) {
		g := NewChainLookup(chainLookupConfig("http://127.0.0.1:1"), logger)

		_, err := g.ResolveHandle(ctx, "$")
		if !errors.Is(err, ErrHandleNotResolved) {
			t.Fatalf("expected ErrHandleNotResolved, got %v", err)
		}
	})
}

func TestChainLookup_AddressInfo(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("returns stake address", func(t *testing.T) {
		var gotProject string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotProject = r.Header.Get("project_id")
			w.Write([]byte(`{"address":"addr1abc","stake_address":"stake1xyz"}`))
		}))
		defer server.Close()

		g := NewChainLookup(chainLookupConfig(server.URL), logger)

		info, err := g.AddressInfo(ctx, "addr1abc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.StakeAddress != "stake1xyz" {
			t.Errorf("expected stake1xyz, got %q", info.StakeAddress)
		}
		if gotProject != "test-project" {
			t.Errorf("expected project_id header, got %q", gotProject)
		}
	})

	t.Run("missing project id returns no_credential", func(t *testing.T) {
		cfg := chainLookupConfig("http://127.0.0.1:1")
		cfg.ProjectID = ""
		g := NewChainLookup(cfg, logger)

		_, err := g.AddressInfo(ctx, "addr1abc")
		if !IsKind(err, KindNoCredential) {
			t.Fatalf("expected no_credential, got %v", err)
		}
	})
}
