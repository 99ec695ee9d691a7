// Package catalog is the HTTP client for the remote storefront backend,
// which owns the catalog, authoritative inventory and order processing.
// This process only ever reads catalog snapshots and submits orders.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/opencounter/pos/internal/domain"
)

// Config holds client settings for the remote backend.
type Config struct {
	// BaseURL is the backend root, e.g. "http://192.168.29.46:3000".
	BaseURL string

	// Token is an optional bearer token sent on every request.
	Token string

	// Timeout bounds each request round trip. Zero means 15s.
	Timeout time.Duration
}

// Client talks to the backend's REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a backend API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog: base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// envelope matches the backend's loose response wrapping: successful
// payloads arrive either bare or under "data"; failures carry "message".
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do executes one request and decodes the response into out (when non-nil).
// A 204 resolves without a body. Non-2xx statuses map onto domain error
// codes so handlers can translate uniformly.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any, header http.Header) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return domain.Internal(err, op, "failed to encode request")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return domain.Internal(err, op, "failed to build request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Unavailable(err, op, "backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Unavailable(err, op, "failed to read backend response")
	}

	var env envelope
	// Non-JSON bodies are tolerated here; status handling below decides.
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := env.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &domain.Error{Code: codeForStatus(resp.StatusCode), Op: op, Message: message}
	}

	if out == nil {
		return nil
	}

	// Unwrap the {"data": ...} envelope once; fall back to the bare body.
	source := raw
	if len(env.Data) > 0 {
		source = env.Data
	}
	if err := json.Unmarshal(source, out); err != nil {
		return domain.Internal(err, op, "failed to decode backend response")
	}
	return nil
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return domain.ENOTFOUND
	case status == http.StatusConflict:
		return domain.ECONFLICT
	case status >= 400 && status < 500:
		return domain.EINVALID
	default:
		return domain.EUNAVAILABLE
	}
}

// =============================================================================
// Categories
// =============================================================================

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := c.do(ctx, "catalog.categories.list", http.MethodGet, "/api/product-categories", nil, nil, &categories, nil)
	return categories, err
}

func (c *Client) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	path := "/api/product-categories/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "catalog.categories.get", http.MethodGet, path, nil, nil, &category, nil); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.do(ctx, "catalog.categories.create", http.MethodPost, "/api/product-categories", nil, input, &category, nil); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, input domain.CategoryInput) (*domain.Category, error) {
	var category domain.Category
	path := "/api/product-categories/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "catalog.categories.update", http.MethodPut, path, nil, input, &category, nil); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	path := "/api/product-categories/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "catalog.categories.delete", http.MethodDelete, path, nil, nil, nil, nil)
}

// =============================================================================
// Products and variants
// =============================================================================

func (c *Client) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.CategoryID > 0 {
		query.Set("category_id", strconv.FormatInt(filter.CategoryID, 10))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var products []domain.Product
	err := c.do(ctx, "catalog.products.list", http.MethodGet, "/api/products", query, nil, &products, nil)
	return products, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	path := "/api/products/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "catalog.products.get", http.MethodGet, path, nil, nil, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, "catalog.products.create", http.MethodPost, "/api/products", nil, input, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error) {
	var product domain.Product
	path := "/api/products/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "catalog.products.update", http.MethodPut, path, nil, input, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	path := "/api/products/" + strconv.FormatInt(id, 10)
	return c.do(ctx, "catalog.products.delete", http.MethodDelete, path, nil, nil, nil, nil)
}

func (c *Client) VariantsByProduct(ctx context.Context, productID int64) ([]domain.Variant, error) {
	var variants []domain.Variant
	path := "/api/variants/product/" + strconv.FormatInt(productID, 10)
	err := c.do(ctx, "catalog.variants.list", http.MethodGet, path, nil, nil, &variants, nil)
	return variants, err
}

// InventoryByVariant returns the normalized stock for one variant.
func (c *Client) InventoryByVariant(ctx context.Context, variantID int64) (domain.Stock, error) {
	var stock domain.Stock
	path := "/api/inventory/variant/" + strconv.FormatInt(variantID, 10)
	err := c.do(ctx, "catalog.inventory.variant", http.MethodGet, path, nil, nil, &stock, nil)
	return stock, err
}

// AdjustInventory sets the stock level for a product or variant to an
// absolute quantity. Returns the normalized stock the backend settled on.
func (c *Client) AdjustInventory(ctx context.Context, adj domain.InventoryAdjustment) (domain.Stock, error) {
	var stock domain.Stock
	err := c.do(ctx, "catalog.inventory.adjust", http.MethodPost, "/api/inventory/adjust", nil, adj, &stock, nil)
	return stock, err
}

// LowStock lists products the backend flags as running out.
func (c *Client) LowStock(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := c.do(ctx, "catalog.inventory.low", http.MethodGet, "/api/inventory/low-stock", nil, nil, &products, nil)
	return products, err
}

// =============================================================================
// Orders
// =============================================================================

// CreateOrder submits an order. An Idempotency-Key header makes retries of
// the same submission safe against double order creation on the backend.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	header := http.Header{}
	header.Set("Idempotency-Key", uuid.NewString())

	var order domain.Order
	if err := c.do(ctx, "orders.create", http.MethodPost, "/api/orders", nil, req, &order, header); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	path := "/api/orders/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "orders.get", http.MethodGet, path, nil, nil, &order, nil); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := c.do(ctx, "orders.list", http.MethodGet, "/api/orders", nil, nil, &orders, nil)
	return orders, err
}

func (c *Client) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	path := "/api/orders/" + strconv.FormatInt(id, 10) + "/cancel"
	if err := c.do(ctx, "orders.cancel", http.MethodPost, path, nil, nil, &order, nil); err != nil {
		return nil, err
	}
	return &order, nil
}
