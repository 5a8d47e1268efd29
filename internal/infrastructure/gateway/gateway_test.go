package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/foliowatch/foliowatch/internal/config"
)

func portfolioConfig(baseURL string) config.PortfolioConfig {
	return config.PortfolioConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		RequestTimeout: 2 * time.Second,
		RateLimitRPS:   100,
	}
}

func TestPortfolio_Classification(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("absent credential returns no_credential without network access", func(t *testing.T) {
		var hits int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt64(&hits, 1)
		}))
		defer server.Close()

		cfg := portfolioConfig(server.URL)
		cfg.APIKey = ""
		p := NewPortfolio(cfg, logger)

		_, err := p.Positions(ctx, "addr1xyz")
		if !IsKind(err, KindNoCredential) {
			t.Fatalf("expected no_credential, got %v", err)
		}
		if atomic.LoadInt64(&hits) != 0 {
			t.Errorf("expected no network access, server saw %d requests", hits)
		}
	})

	t.Run("timeout returns service_unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer server.Close()

		cfg := portfolioConfig(server.URL)
		cfg.RequestTimeout = 50 * time.Millisecond
		p := NewPortfolio(cfg, logger)

		_, err := p.Positions(ctx, "addr1xyz")
		if !IsKind(err, KindServiceUnreachable) {
			t.Fatalf("expected service_unreachable, got %v", err)
		}
	})

	t.Run("connection failure returns service_unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // nothing listens anymore

		p := NewPortfolio(portfolioConfig(server.URL), logger)

		_, err := p.Positions(ctx, "addr1xyz")
		if !IsKind(err, KindServiceUnreachable) {
			t.Fatalf("expected service_unreachable, got %v", err)
		}
	})

	t.Run("http 404 returns http_error with code", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer server.Close()

		p := NewPortfolio(portfolioConfig(server.URL), logger)

		_, err := p.Positions(ctx, "addr1xyz")
		var ge *Error
		if !errors.As(err, &ge) {
			t.Fatalf("expected gateway error, got %v", err)
		}
		if ge.Kind != KindHTTPError {
			t.Errorf("expected http_error, got %s", ge.Kind)
		}
		if ge.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", ge.StatusCode)
		}
	})

	t.Run("error-only payload returns error_body with raw payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"error":"address is malformed"}`))
		}))
		defer server.Close()

		p := NewPortfolio(portfolioConfig(server.URL), logger)

		_, err := p.Positions(ctx, "addr1xyz")
		var ge *Error
		if !errors.As(err, &ge) {
			t.Fatalf("expected gateway error, got %v", err)
		}
		if ge.Kind != KindErrorBody {
			t.Errorf("expected error_body, got %s", ge.Kind)
		}
		if len(ge.Body) == 0 {
			t.Error("expected raw error payload to be carried")
		}
	})

	t.Run("empty body returns body_and_error_null", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		p := NewPortfolio(portfolioConfig(server.URL), logger)

		_, err := p.Positions(ctx, "addr1xyz")
		if !IsKind(err, KindBodyAndErrorNull) {
			t.Fatalf("expected body_and_error_null, got %v", err)
		}
	})

	t.Run("cancellation propagates instead of becoming a result", func(t *testing.T) {
		started := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-r.Context().Done()
		}))
		defer server.Close()

		p := NewPortfolio(portfolioConfig(server.URL), logger)

		callCtx, cancel := context.WithCancel(ctx)
		go func() {
			<-started
			cancel()
		}()

		_, err := p.Positions(callCtx, "addr1xyz")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if _, ok := KindOf(err); ok {
			t.Error("cancellation must not be converted to a gateway error")
		}
	})

	t.Run("api key header is injected", func(t *testing.T) {
		var gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("x-api-key")
			w.Write([]byte(`{"positionsFt":[],"positionsLp":[],"positionsNft":[]}`))
		}))
		defer server.Close()

		p := NewPortfolio(portfolioConfig(server.URL), logger)

		if _, err := p.Positions(ctx, "addr1xyz"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotKey != "test-key" {
			t.Errorf("expected x-api-key header, got %q", gotKey)
		}
	})

	t.Run("credential swap rebuilds the client", func(t *testing.T) {
		var gotKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("x-api-key")
			w.Write([]byte(`{"positionsFt":[],"positionsLp":[],"positionsNft":[]}`))
		}))
		defer server.Close()

		cfg := portfolioConfig(server.URL)
		p := NewPortfolio(cfg, logger)

		cfg.APIKey = "rotated-key"
		p.Configure(cfg)

		if _, err := p.Positions(ctx, "addr1xyz"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotKey != "rotated-key" {
			t.Errorf("expected rotated key, got %q", gotKey)
		}
	})
}

func TestPortfolio_TokenPrices(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"unitA":1.5,"unitB":0.25}`))
	}))
	defer server.Close()

	p := NewPortfolio(portfolioConfig(server.URL), logger)

	prices, err := p.TokenPrices(ctx, []string{"unitA", "unitB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prices["unitA"] != 1.5 || prices["unitB"] != 0.25 {
		t.Errorf("unexpected prices: %v", prices)
	}
}
