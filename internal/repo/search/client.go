// Package search implements the storefront side of the marketplace lookup:
// one keyword query against the search proxy, normalized into the canonical
// product shape.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Tiger884/retro-pc-store/internal/config"
	"github.com/Tiger884/retro-pc-store/internal/models"
)

type Client interface {
	Search(ctx context.Context, keywords string) ([]models.Product, error)
}

type client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

func NewClient(cfg *config.Config) Client {
	return &client{
		httpClient: &http.Client{},
		baseURL:    cfg.Search.ProxyURL,
		timeout:    cfg.Search.Timeout,
	}
}

// searchResponse mirrors the proxy contract: either items or a structured
// error body.
type searchResponse struct {
	Items   []models.RawItem `json:"items"`
	Count   int              `json:"count"`
	Error   string           `json:"error"`
	Message string           `json:"message"`
}

// Search issues a single GET to the proxy endpoint. The per-call deadline is
// the only cancellation primitive; retries belong to the caller.
func (c *client) Search(ctx context.Context, keywords string) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s?keywords=%s", c.baseURL, url.QueryEscape(keywords))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &models.TimeoutError{Err: err}
		}
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &models.NetworkError{StatusCode: resp.StatusCode}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &models.ProtocolError{Reason: "malformed response body"}
	}
	if payload.Error != "" {
		return nil, &models.ProtocolError{Reason: payload.Error + ": " + payload.Message}
	}
	if payload.Items == nil {
		return nil, &models.ProtocolError{Reason: "items field missing"}
	}

	products := make([]models.Product, 0, len(payload.Items))
	for _, item := range payload.Items {
		product, ok := item.Product()
		if !ok {
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}
