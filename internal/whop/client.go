// Package whop is a thin client for the commerce platform's read API. It
// covers only product reads; payment events arrive through the webhook.
package whop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`
	URL        string `json:"url,omitempty"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether API credentials are present. Callers treat an
// unconfigured client as "no external billing data available".
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// productResponse tolerates the field aliases the provider has used across
// API versions.
type productResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	PriceCents  int64  `json:"price_cents"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	CheckoutURL string `json:"checkout_url"`
	URL         string `json:"url"`
}

func (pr *productResponse) toProduct() *Product {
	p := &Product{
		ID:         pr.ID,
		Name:       pr.Name,
		PriceCents: pr.PriceCents,
		Currency:   pr.Currency,
		URL:        pr.CheckoutURL,
	}
	if p.Name == "" {
		p.Name = pr.Title
	}
	if p.PriceCents == 0 {
		p.PriceCents = pr.Amount
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.URL == "" {
		p.URL = pr.URL
	}
	return p
}

func (c *Client) FetchProduct(ctx context.Context, productID string) (*Product, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("whop api credentials not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/products/%s", c.baseURL, productID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whop api request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("whop product %s not found", productID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whop api returned status %d", resp.StatusCode)
	}

	var pr productResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("failed to decode whop product: %v", err)
	}

	return pr.toProduct(), nil
}

func (c *Client) ListProducts(ctx context.Context) ([]*Product, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("whop api credentials not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whop api request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whop api returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Products []productResponse `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode whop products: %v", err)
	}

	products := make([]*Product, 0, len(envelope.Products))
	for i := range envelope.Products {
		products = append(products, envelope.Products[i].toProduct())
	}
	return products, nil
}
