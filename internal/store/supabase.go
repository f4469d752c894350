package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/selet/storefront/internal/models"
)

const maxSupabaseResponseBytes = 8 << 20 // 8 MiB

// SupabaseClient talks to a Supabase project's PostgREST endpoint. It is the
// durability tier behind the aggregation API.
type SupabaseClient struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

func NewSupabaseClient(rawURL, apiKey string) *SupabaseClient {
	return &SupabaseClient{
		url:    rawURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether the client has enough configuration to be used as
// a tier at all.
func (c *SupabaseClient) Enabled() bool {
	return c.url != "" && c.apiKey != ""
}

func (c *SupabaseClient) request(ctx context.Context, method, table, query string, body any) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/rest/v1/%s", c.url, table)
	if query != "" {
		reqURL += "?" + query
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", table, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSupabaseResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", table, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, table, resp.StatusCode, data)
	}
	return data, nil
}

func eqFilter(id string) string {
	return "id=eq." + url.QueryEscape(id)
}

// Row shapes mirror the table columns, which are snake_case; the API and
// cache shapes stay camelCase, so each adapter converts at the boundary.

type productRow struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Image         string           `json:"image"`
	CategoryID    string           `json:"category_id"`
	Availability  string           `json:"availability"`
	Description   string           `json:"description,omitempty"`
	InStock       bool             `json:"in_stock"`
	IsActive      bool             `json:"is_active"`
	IsFeatured    bool             `json:"is_featured"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

func toProductRow(p models.Product) productRow {
	return productRow{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		CategoryID:    p.CategoryID,
		Availability:  p.Availability,
		Description:   p.Description,
		InStock:       p.InStock,
		IsActive:      p.IsActive,
		IsFeatured:    p.IsFeatured,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r productRow) toModel() models.Product {
	return models.Product{
		ID:            r.ID,
		Name:          r.Name,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		Image:         r.Image,
		CategoryID:    r.CategoryID,
		Availability:  r.Availability,
		Description:   r.Description,
		InStock:       r.InStock,
		IsActive:      r.IsActive,
		IsFeatured:    r.IsFeatured,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type categoryRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCategoryRow(c models.Category) categoryRow {
	return categoryRow{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		SortOrder:   c.Order,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

func (r categoryRow) toModel() models.Category {
	return models.Category{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Order:       r.SortOrder,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}

type orderRow struct {
	ID            string              `json:"id"`
	Items         []models.CartItem   `json:"items"`
	Customer      models.CustomerData `json:"customer"`
	PaymentMethod string              `json:"payment_method"`
	Status        string              `json:"status"`
	TotalAmount   *decimal.Decimal    `json:"total_amount,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func toOrderRow(o models.Order) orderRow {
	return orderRow{
		ID:            o.ID,
		Items:         o.Items,
		Customer:      o.Customer,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (r orderRow) toModel() models.Order {
	return models.Order{
		ID:            r.ID,
		Items:         r.Items,
		Customer:      r.Customer,
		PaymentMethod: r.PaymentMethod,
		Status:        r.Status,
		TotalAmount:   r.TotalAmount,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// Partial updates arrive keyed by the API field names; translate to columns
// and drop anything the table does not know about.
var (
	productColumns = map[string]string{
		"name":          "name",
		"price":         "price",
		"originalPrice": "original_price",
		"image":         "image",
		"categoryId":    "category_id",
		"availability":  "availability",
		"description":   "description",
		"inStock":       "in_stock",
		"isActive":      "is_active",
		"isFeatured":    "is_featured",
		"updatedAt":     "updated_at",
	}
	categoryColumns = map[string]string{
		"name":        "name",
		"slug":        "slug",
		"description": "description",
		"order":       "sort_order",
		"isActive":    "is_active",
	}
	orderColumns = map[string]string{
		"status":    "status",
		"notes":     "notes",
		"updatedAt": "updated_at",
	}
)

func toColumns(fields map[string]any, columns map[string]string) map[string]any {
	row := make(map[string]any, len(fields))
	for key, value := range fields {
		if col, ok := columns[key]; ok {
			row[col] = value
		}
	}
	return row
}

// SupabaseProducts serves the products table as a Source.
type SupabaseProducts struct {
	client *SupabaseClient
}

func NewSupabaseProducts(client *SupabaseClient) *SupabaseProducts {
	return &SupabaseProducts{client: client}
}

func (s *SupabaseProducts) Name() string { return "supabase" }

func (s *SupabaseProducts) List(ctx context.Context) ([]models.Product, error) {
	data, err := s.client.request(ctx, http.MethodGet, "products", "select=*&order=created_at.desc", nil)
	if err != nil {
		return nil, err
	}

	var rows []productRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}

func (s *SupabaseProducts) Insert(ctx context.Context, p models.Product) error {
	_, err := s.client.request(ctx, http.MethodPost, "products", "", toProductRow(p))
	return err
}

func (s *SupabaseProducts) Patch(ctx context.Context, id string, fields map[string]any) error {
	_, err := s.client.request(ctx, http.MethodPatch, "products", eqFilter(id), toColumns(fields, productColumns))
	return err
}

func (s *SupabaseProducts) Delete(ctx context.Context, id string) error {
	_, err := s.client.request(ctx, http.MethodDelete, "products", eqFilter(id), nil)
	return err
}

// SetFeatured clears the flag on every other row, then sets it on the
// target. Not transactional: a crash in between can leave zero or two rows
// flagged, and re-running the operation heals it.
func (s *SupabaseProducts) SetFeatured(ctx context.Context, id string) error {
	_, err := s.client.request(ctx, http.MethodPatch, "products",
		"id=neq."+url.QueryEscape(id), map[string]any{"is_featured": false})
	if err != nil {
		return err
	}
	_, err = s.client.request(ctx, http.MethodPatch, "products",
		eqFilter(id), map[string]any{"is_featured": true})
	return err
}

// SupabaseCategories serves the categories table as a Source.
type SupabaseCategories struct {
	client *SupabaseClient
}

func NewSupabaseCategories(client *SupabaseClient) *SupabaseCategories {
	return &SupabaseCategories{client: client}
}

func (s *SupabaseCategories) Name() string { return "supabase" }

func (s *SupabaseCategories) List(ctx context.Context) ([]models.Category, error) {
	data, err := s.client.request(ctx, http.MethodGet, "categories", "select=*&order=sort_order.asc", nil)
	if err != nil {
		return nil, err
	}

	var rows []categoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.toModel())
	}
	return categories, nil
}

func (s *SupabaseCategories) Insert(ctx context.Context, c models.Category) error {
	_, err := s.client.request(ctx, http.MethodPost, "categories", "", toCategoryRow(c))
	return err
}

func (s *SupabaseCategories) Patch(ctx context.Context, id string, fields map[string]any) error {
	_, err := s.client.request(ctx, http.MethodPatch, "categories", eqFilter(id), toColumns(fields, categoryColumns))
	return err
}

func (s *SupabaseCategories) Delete(ctx context.Context, id string) error {
	_, err := s.client.request(ctx, http.MethodDelete, "categories", eqFilter(id), nil)
	return err
}

// SupabaseOrders serves the orders table as a Source.
type SupabaseOrders struct {
	client *SupabaseClient
}

func NewSupabaseOrders(client *SupabaseClient) *SupabaseOrders {
	return &SupabaseOrders{client: client}
}

func (s *SupabaseOrders) Name() string { return "supabase" }

func (s *SupabaseOrders) List(ctx context.Context) ([]models.Order, error) {
	data, err := s.client.request(ctx, http.MethodGet, "orders", "select=*&order=created_at.desc", nil)
	if err != nil {
		return nil, err
	}

	var rows []orderRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders, nil
}

func (s *SupabaseOrders) Insert(ctx context.Context, o models.Order) error {
	_, err := s.client.request(ctx, http.MethodPost, "orders", "", toOrderRow(o))
	return err
}

func (s *SupabaseOrders) Patch(ctx context.Context, id string, fields map[string]any) error {
	_, err := s.client.request(ctx, http.MethodPatch, "orders", eqFilter(id), toColumns(fields, orderColumns))
	return err
}

func (s *SupabaseOrders) Delete(ctx context.Context, id string) error {
	_, err := s.client.request(ctx, http.MethodDelete, "orders", eqFilter(id), nil)
	return err
}
