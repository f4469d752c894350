package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/selet/storefront/internal/models"
)

// APIClient talks to the aggregation service, the preferred tier: it layers
// business rules (single featured product, guarded category deletes) on top
// of the table store. Admin-scoped calls carry the bearer token obtained
// from Login.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *APIClient) SetToken(token string) {
	c.token = token
}

func (c *APIClient) Authenticated() bool {
	return c.token != ""
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s %s: %w", method, path, ErrSourceUnauthorized)
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 32<<10))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login exchanges the credentials for a bearer token and keeps it for the
// admin-scoped calls that follow.
func (c *APIClient) Login(ctx context.Context, username, password string) error {
	var result struct {
		Token string           `json:"token"`
		User  models.AdminUser `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/admin/login",
		map[string]string{"username": username, "password": password}, &result)
	if err != nil {
		return err
	}
	c.token = result.Token
	return nil
}

func (c *APIClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// APIProducts serves products through the aggregation service.
type APIProducts struct {
	client *APIClient
}

func NewAPIProducts(client *APIClient) *APIProducts {
	return &APIProducts{client: client}
}

func (s *APIProducts) Name() string { return "api" }

// List prefers the admin view (all products) when a token is held; the
// public endpoint only serves active products.
func (s *APIProducts) List(ctx context.Context) ([]models.Product, error) {
	path := "/api/products"
	if s.client.Authenticated() {
		path = "/api/admin/products"
	}

	var products []models.Product
	if err := s.client.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *APIProducts) Insert(ctx context.Context, p models.Product) error {
	return s.client.do(ctx, http.MethodPost, "/api/admin/products", p, nil)
}

func (s *APIProducts) Patch(ctx context.Context, id string, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPut, "/api/admin/products/"+id, fields, nil)
}

func (s *APIProducts) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/admin/products/"+id, nil, nil)
}

// SetFeatured delegates the at-most-one sweep to the service, which
// enforces it as a business rule.
func (s *APIProducts) SetFeatured(ctx context.Context, id string) error {
	return s.Patch(ctx, id, map[string]any{"isFeatured": true})
}

// APICategories serves categories through the aggregation service.
type APICategories struct {
	client *APIClient
}

func NewAPICategories(client *APIClient) *APICategories {
	return &APICategories{client: client}
}

func (s *APICategories) Name() string { return "api" }

func (s *APICategories) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.client.do(ctx, http.MethodGet, "/api/admin/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *APICategories) Insert(ctx context.Context, c models.Category) error {
	return s.client.do(ctx, http.MethodPost, "/api/admin/categories", c, nil)
}

func (s *APICategories) Patch(ctx context.Context, id string, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPut, "/api/admin/categories/"+id, fields, nil)
}

func (s *APICategories) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/admin/categories/"+id, nil, nil)
}

// APIOrders serves orders through the aggregation service. Submission is
// public; everything else is admin-scoped.
type APIOrders struct {
	client *APIClient
}

func NewAPIOrders(client *APIClient) *APIOrders {
	return &APIOrders{client: client}
}

func (s *APIOrders) Name() string { return "api" }

func (s *APIOrders) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.client.do(ctx, http.MethodGet, "/api/admin/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *APIOrders) Insert(ctx context.Context, o models.Order) error {
	return s.client.do(ctx, http.MethodPost, "/api/orders", o, nil)
}

func (s *APIOrders) Patch(ctx context.Context, id string, fields map[string]any) error {
	return s.client.do(ctx, http.MethodPatch, "/api/admin/orders/"+id, fields, nil)
}

func (s *APIOrders) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/admin/orders/"+id, nil, nil)
}
