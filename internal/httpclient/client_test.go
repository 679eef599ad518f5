package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProviderContext(t *testing.T) {
	ctx := context.Background()
	if got := ProviderFromContext(ctx); got != "" {
		t.Errorf("expected empty provider, got %q", got)
	}

	ctx = WithProvider(ctx, "Gemini")
	if got := ProviderFromContext(ctx); got != "Gemini" {
		t.Errorf("expected Gemini, got %q", got)
	}
}

func TestWrapClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := WrapClient(server.Client())
	req, err := http.NewRequestWithContext(WithProvider(context.Background(), "OpenAI"), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status passed through, got %d", resp.StatusCode)
	}
}

func TestProviderClientHasNoTimeout(t *testing.T) {
	if ProviderClient.Timeout != 0 {
		t.Errorf("expected no client timeout, got %v", ProviderClient.Timeout)
	}
}
