package whop

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchProductFieldAliases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/prod-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key-1" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		// Older API shape: title/amount/url instead of name/price_cents/checkout_url
		w.Write([]byte(`{"id":"prod-1","title":"Mixdown Session","amount":5000,"url":"https://whop.com/checkout/prod-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1")

	product, err := client.FetchProduct(context.Background(), "prod-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if product.Name != "Mixdown Session" {
		t.Errorf("expected title alias to fill name, got %q", product.Name)
	}
	if product.PriceCents != 5000 {
		t.Errorf("expected amount alias to fill price, got %d", product.PriceCents)
	}
	if product.Currency != "USD" {
		t.Errorf("expected USD default currency, got %q", product.Currency)
	}
	if product.URL != "https://whop.com/checkout/prod-1" {
		t.Errorf("expected url alias to fill checkout url, got %q", product.URL)
	}
}

func TestFetchProductNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key-1")

	if _, err := client.FetchProduct(context.Background(), "missing"); err == nil {
		t.Fatal("expected an error for a missing product")
	}
}

func TestUnconfiguredClientRefusesRequests(t *testing.T) {
	client := NewClient("", "")
	if client.Configured() {
		t.Fatal("expected client without credentials to report unconfigured")
	}
	if _, err := client.FetchProduct(context.Background(), "prod-1"); err == nil {
		t.Error("expected an error from an unconfigured client")
	}
	if _, err := client.ListProducts(context.Background()); err == nil {
		t.Error("expected an error from an unconfigured client")
	}
}
