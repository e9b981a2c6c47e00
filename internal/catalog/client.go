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
	"strings"
	"time"

	pkgerrors "github.com/khaizansolutions/khaizan-storefront/pkg/errors"
)

const (
	defaultTimeout             = 10 * time.Second
	defaultPageSize            = 20
	maxPageSize                = 100
	errorBodyReadLimit   int64 = 1024
	fallbackScanPageSize       = 100
)

// Client talks to the upstream product catalog API. The catalog owns all
// business logic; this client only shapes requests and decodes responses.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	maxSize    int
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithPageSizes overrides the default and maximum list page sizes.
func WithPageSizes(defaultSize, maxSize int) Option {
	return func(c *Client) {
		if defaultSize > 0 {
			c.pageSize = defaultSize
		}
		if maxSize > 0 {
			c.maxSize = maxSize
		}
	}
}

// NewClient builds a catalog client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog base url is required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    trimmed,
		pageSize:   defaultPageSize,
		maxSize:    maxPageSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// ListProducts fetches one page of products. The catalog answers with either
// a paginated envelope or a bare array; both decode into a Page.
func (c *Client) ListProducts(ctx context.Context, params ListParams) (Page, error) {
	query := url.Values{}
	query.Set("page_size", strconv.Itoa(c.clampPageSize(params.PageSize)))
	if params.Category != "" {
		query.Set("subcategory__category", params.Category)
	}
	if params.Subcategory != "" {
		query.Set("subcategory", params.Subcategory)
	}
	if params.ProductType != "" {
		query.Set("product_type", params.ProductType.String())
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Featured {
		query.Set("is_featured", "true")
	}

	body, err := c.get(ctx, "/products/", query)
	if err != nil {
		return Page{}, err
	}
	return decodePage(body)
}

// GetProduct resolves a product by slug or id. A direct lookup is tried
// first; when the catalog answers 404 the first listing page is scanned by
// slug and then by id, the way category landing pages link to products that
// predate slugs.
func (c *Client) GetProduct(ctx context.Context, slugOrID string) (Product, error) {
	trimmed := strings.TrimSpace(slugOrID)
	if trimmed == "" {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product slug or id is required")
	}

	body, err := c.get(ctx, "/products/"+url.PathEscape(trimmed)+"/", nil)
	if err == nil {
		var product Product
		if decodeErr := json.Unmarshal(body, &product); decodeErr != nil {
			return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode product")
		}
		return product, nil
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		return Product{}, err
	}

	page, err := c.ListProducts(ctx, ListParams{PageSize: fallbackScanPageSize})
	if err != nil {
		return Product{}, err
	}
	for _, product := range page.Results {
		if product.Slug == trimmed {
			return product, nil
		}
	}
	for _, product := range page.Results {
		if product.ID.String() == trimmed {
			return product, nil
		}
	}
	return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// ListByType fetches the full list for one product line.
func (c *Client) ListByType(ctx context.Context, productType string) ([]Product, error) {
	trimmed := strings.TrimSpace(productType)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product type is required")
	}
	body, err := c.get(ctx, "/products/"+url.PathEscape(trimmed)+"/", nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(body)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// ListFeatured fetches the curated featured set.
func (c *Client) ListFeatured(ctx context.Context) ([]Product, error) {
	body, err := c.get(ctx, "/products/featured/", nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(body)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// ListCategories fetches the category taxonomy, optionally narrowed to the
// entries flagged for navigation.
func (c *Client) ListCategories(ctx context.Context, navbarOnly bool) ([]Category, error) {
	var query url.Values
	if navbarOnly {
		query = url.Values{"navbar": []string{"true"}}
	}
	body, err := c.get(ctx, "/categories/", query)
	if err != nil {
		return nil, err
	}
	var categories []Category
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode categories")
	}
	return categories, nil
}

// QuoteSubmission is the payload forwarded to the catalog's quotation inbox.
type QuoteSubmission struct {
	CustomerName string                `json:"customer_name"`
	Email        string                `json:"email,omitempty"`
	Phone        string                `json:"phone"`
	Note         string                `json:"note,omitempty"`
	Currency     string                `json:"currency"`
	Items        []QuoteSubmissionItem `json:"items"`
}

// QuoteSubmissionItem is one requested line in a submitted quotation.
type QuoteSubmissionItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// QuoteReceipt is the catalog's acknowledgement of a submitted quotation.
type QuoteReceipt struct {
	ID     FlexString `json:"id"`
	Status string     `json:"status"`
}

// SubmitQuote forwards a composed quotation upstream.
func (c *Client) SubmitQuote(ctx context.Context, submission QuoteSubmission) (QuoteReceipt, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return QuoteReceipt{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal quote submission")
	}

	endpoint := c.baseURL + "/quotes/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return QuoteReceipt{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build quote submission request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return QuoteReceipt{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute quote submission")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return QuoteReceipt{}, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"quote submission rejected",
		)
	}

	var receipt QuoteReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return QuoteReceipt{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode quote receipt")
	}
	return receipt, nil
}

func (c *Client) clampPageSize(size int) int {
	if size <= 0 {
		return c.pageSize
	}
	if size > c.maxSize {
		return c.maxSize
	}
	return size
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute catalog request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog resource not found")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"catalog request failed",
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}
	return body, nil
}

// decodePage accepts both list shapes the catalog has served over time: the
// DRF-style envelope and a bare JSON array.
func decodePage(body []byte) (Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product list")
		}
		return Page{Count: len(products), Results: products}, nil
	}

	var page Page
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product page")
	}
	if page.Results == nil {
		page.Results = []Product{}
	}
	return page, nil
}
