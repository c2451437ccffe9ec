package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultAPIVersion = "2023-10"
	// MinAccessTokenLength shortest Admin API token accepted before any network call
	MinAccessTokenLength = 20
	DefaultMaxPages      = 40

	pageLimit            = 250
	inventoryIDBatchSize = 50
	myshopifySuffix      = ".myshopify.com"
)

var (
	ErrMissingAccessToken  = errors.New("Admin API access token is required for data extraction")
	ErrAccessTokenTooShort = errors.New("Invalid Admin API access token - too short")
	ErrMissingDomain       = errors.New("shop domain is required")
	// ErrUnsupported the shop's plan or token scope does not expose the resource
	ErrUnsupported = errors.New("shopify: resource not available for this shop")
)

// APIError non-2xx answer from the Admin API
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify API %s returned %d: %s", e.Path, e.StatusCode, truncate(e.Body, 200))
}

// IsUnauthorized bad or revoked access token
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// IsNotFound unknown shop or resource
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ==================== Client ====================

// Client Admin REST API client bound to one shop and one token.
// Requests are paced by a token bucket and guarded by a circuit breaker.
type Client struct {
	host     string
	baseURL  string
	http     *resty.Client
	limiter  *rate.Limiter
	breaker  *Breaker
	maxPages int
	log      *zap.Logger

	apiVersion   string
	timeout      time.Duration
	retryCount   int
	retryWait    time.Duration
	ratePerSec   float64
	burst        int
	breakerFails int
	breakerReset time.Duration
}

// Option configures a Client
type Option func(*Client)

func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithBaseURL overrides https://<shop>/admin/api/<version>
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.ratePerSec = perSecond
		}
		if burst > 0 {
			c.burst = burst
		}
	}
}

func WithMaxPages(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetry retries 429 and 5xx answers count times
func WithRetry(count int, wait time.Duration) Option {
	return func(c *Client) {
		c.retryCount = count
		c.retryWait = wait
	}
}

func WithBreaker(maxFailures int, reset time.Duration) Option {
	return func(c *Client) {
		c.breakerFails = maxFailures
		c.breakerReset = reset
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient validates the credential shape and builds a client. No request is sent.
func NewClient(domain, accessToken string, opts ...Option) (*Client, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}
	if len(accessToken) < MinAccessTokenLength {
		return nil, ErrAccessTokenTooShort
	}
	host := ShopHost(domain)
	if host == "" {
		return nil, ErrMissingDomain
	}

	c := &Client{
		host:         host,
		maxPages:     DefaultMaxPages,
		log:          zap.NewNop(),
		apiVersion:   DefaultAPIVersion,
		timeout:      30 * time.Second,
		retryCount:   2,
		retryWait:    time.Second,
		ratePerSec:   2,
		burst:        4,
		breakerFails: 5,
		breakerReset: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = fmt.Sprintf("https://%s/admin/api/%s", c.host, c.apiVersion)
	}

	c.limiter = rate.NewLimiter(rate.Limit(c.ratePerSec), c.burst)
	c.breaker = NewBreaker(c.breakerFails, c.breakerReset)
	c.http = resty.New().
		SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetHeader("X-Shopify-Access-Token", accessToken).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Xenofy-Ingestion/1.0").
		SetRetryCount(c.retryCount).
		SetRetryWaitTime(c.retryWait).
		SetRetryMaxWaitTime(5 * c.retryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil || r == nil {
				return false
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return c, nil
}

// Host canonical <shop>.myshopify.com host
func (c *Client) Host() string { return c.host }

// ShopHost reduces a stored domain to the shop's myshopify host.
// "mystore", "mystore.myshopify.com" and "https://mystore.myshopify.com/" all
// map to "mystore.myshopify.com".
func ShopHost(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if d == "" {
		return ""
	}
	if strings.HasSuffix(d, myshopifySuffix) {
		return d
	}
	return strings.SplitN(d, ".", 2)[0] + myshopifySuffix
}

// ==================== Resources ====================

// GetShop store profile; doubles as the credential check
func (c *Client) GetShop(ctx context.Context) (*Shop, error) {
	resp, err := c.fetch(ctx, "/shop.json", nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Shop *Shop `json:"shop"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("decode shop: %w", err)
	}
	if env.Shop == nil {
		return nil, fmt.Errorf("decode shop: empty payload")
	}
	return env.Shop, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	raws, err := c.listAll(ctx, "/customers.json", nil, "customers")
	if err != nil {
		return nil, err
	}
	return decodeList[Customer](raws)
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	raws, err := c.listAll(ctx, "/products.json", nil, "products")
	if err != nil {
		return nil, err
	}
	return decodeList[Product](raws)
}

// ListInventoryLevels levels for the given inventory items, batched 50 ids per request
func (c *Client) ListInventoryLevels(ctx context.Context, itemIDs []int64) ([]InventoryLevel, error) {
	var levels []InventoryLevel
	for start := 0; start < len(itemIDs); start += inventoryIDBatchSize {
		end := min(start+inventoryIDBatchSize, len(itemIDs))
		ids := make([]string, 0, end-start)
		for _, id := range itemIDs[start:end] {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		q := url.Values{"inventory_item_ids": {strings.Join(ids, ",")}}
		raws, err := c.listAll(ctx, "/inventory_levels.json", q, "inventory_levels")
		if err != nil {
			return nil, err
		}
		for _, raw := range raws {
			var lvl InventoryLevel
			if err := json.Unmarshal(raw, &lvl); err != nil {
				return nil, fmt.Errorf("decode inventory level: %w", err)
			}
			levels = append(levels, lvl)
		}
	}
	return levels, nil
}

// ListOrders every order regardless of status
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	raws, err := c.listAll(ctx, "/orders.json", url.Values{"status": {"any"}}, "orders")
	if err != nil {
		return nil, err
	}
	return decodeList[Order](raws)
}

func (c *Client) ListAbandonedCheckouts(ctx context.Context) ([]Checkout, error) {
	raws, err := c.listAll(ctx, "/checkouts.json", nil, "checkouts")
	if err != nil {
		return nil, err
	}
	return decodeList[Checkout](raws)
}

func (c *Client) ListEvents(ctx context.Context) ([]Event, error) {
	raws, err := c.listAll(ctx, "/events.json", nil, "events")
	if err != nil {
		return nil, err
	}
	return decodeList[Event](raws)
}

// ListReports analytics reports; ErrUnsupported when the shop cannot read them
func (c *Client) ListReports(ctx context.Context) ([]Report, error) {
	raws, err := c.listAll(ctx, "/reports.json", nil, "reports")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		return nil, err
	}
	return decodeList[Report](raws)
}

// ==================== Transport ====================

// listAll follows Link rel="next" cursors until exhausted or maxPages is reached.
func (c *Client) listAll(ctx context.Context, path string, query url.Values, key string) ([]json.RawMessage, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("limit", strconv.Itoa(pageLimit))

	var out []json.RawMessage
	target := path
	for page := 1; ; page++ {
		resp, err := c.fetch(ctx, target, q)
		if err != nil {
			return nil, err
		}

		var env map[string]json.RawMessage
		if err := json.Unmarshal(resp.Body(), &env); err != nil {
			return nil, fmt.Errorf("decode %s page %d: %w", key, page, err)
		}
		var items []json.RawMessage
		if body, ok := env[key]; ok && len(body) > 0 {
			if err := json.Unmarshal(body, &items); err != nil {
				return nil, fmt.Errorf("decode %s page %d: %w", key, page, err)
			}
		}
		out = append(out, items...)

		next := NextPageURL(resp.Header().Get("Link"))
		if next == "" {
			break
		}
		if page >= c.maxPages {
			c.log.Warn("shopify pagination truncated",
				zap.String("shop", c.host), zap.String("resource", key), zap.Int("pages", page))
			break
		}
		// the cursor URL carries page_info and limit; other filters must not be resent
		target, q = next, nil
	}

	c.log.Debug("shopify list fetched",
		zap.String("shop", c.host), zap.String("resource", key), zap.Int("count", len(out)))
	return out, nil
}

func (c *Client) fetch(ctx context.Context, target string, query url.Values) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp *resty.Response
	err := c.breaker.Call(func() error {
		req := c.http.R().SetContext(ctx)
		if len(query) > 0 {
			req.SetQueryParamsFromValues(query)
		}
		r, err := req.Get(target)
		if err != nil {
			return err
		}
		resp = r
		if r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError {
			return newAPIError(target, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newAPIError(target, resp)
	}
	return resp, nil
}

func newAPIError(target string, r *resty.Response) *APIError {
	path := target
	if u, err := url.Parse(target); err == nil {
		path = u.Path
	}
	return &APIError{StatusCode: r.StatusCode(), Path: path, Body: string(r.Body())}
}

// NextPageURL extracts the rel="next" target from a Link header.
func NextPageURL(link string) string {
	for _, part := range strings.Split(link, ",") {
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		isNext := false
		for _, attr := range segs[1:] {
			if strings.ReplaceAll(strings.TrimSpace(attr), " ", "") == `rel="next"` {
				isNext = true
				break
			}
		}
		if !isNext {
			continue
		}
		u := strings.TrimSpace(segs[0])
		return strings.TrimSuffix(strings.TrimPrefix(u, "<"), ">")
	}
	return ""
}

type rawCarrier[T any] interface {
	*T
	setRaw(json.RawMessage)
}

func decodeList[T any, PT rawCarrier[T]](raws []json.RawMessage) ([]T, error) {
	out := make([]T, len(raws))
	for i, raw := range raws {
		p := PT(&out[i])
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, fmt.Errorf("decode %T: %w", out[i], err)
		}
		p.setRaw(raw)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ==================== Credential check ====================

// CredentialError merchant-facing explanation of a failed credential check
type CredentialError struct {
	Message string
	Err     error
}

func (e *CredentialError) Error() string { return e.Message }

func (e *CredentialError) Unwrap() error { return e.Err }

// Credential check messages.
const (
	MsgInvalidAccessToken = "Invalid Shopify Admin API access token. Please check your API key and ensure it has the required permissions."
	MsgShopNotFound       = "Shop not found. Please verify your Shopify domain is correct (e.g., mystore.myshopify.com)."
	msgConnectFailed      = "Failed to connect to Shopify: %s. Please ensure your API key has read access to your store."
)

// ValidateCredentials fetches the shop profile and explains any failure as a *CredentialError
func (c *Client) ValidateCredentials(ctx context.Context) error {
	_, err := c.GetShop(ctx)
	return ClassifyCredentialError(err)
}

// ClassifyCredentialError maps a constructor or GetShop error to a *CredentialError; nil stays nil.
func ClassifyCredentialError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrMissingAccessToken), errors.Is(err, ErrAccessTokenTooShort), IsUnauthorized(err):
		return &CredentialError{Message: MsgInvalidAccessToken, Err: err}
	case IsNotFound(err):
		return &CredentialError{Message: MsgShopNotFound, Err: err}
	default:
		return &CredentialError{Message: fmt.Sprintf(msgConnectFailed, err.Error()), Err: err}
	}
}
