package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "shpat_0123456789abcdef0123"

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(srv.URL),
		WithRateLimit(1000, 1000),
		WithRetry(0, 0),
	}
	c, err := NewClient("teststore.myshopify.com", testToken, append(base, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewClient_CredentialShape(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		token   string
		wantErr error
	}{
		{"missing token", "store.myshopify.com", "", ErrMissingAccessToken},
		{"short token", "store.myshopify.com", "shpat_short", ErrAccessTokenTooShort},
		{"missing domain", "", testToken, ErrMissingDomain},
		{"ok", "store.myshopify.com", testToken, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.domain, tt.token)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestShopHost(t *testing.T) {
	tests := map[string]string{
		"mystore":                         "mystore.myshopify.com",
		"mystore.myshopify.com":           "mystore.myshopify.com",
		"https://MyStore.myshopify.com/":  "mystore.myshopify.com",
		"mystore.example.com":             "mystore.myshopify.com",
		"http://mystore.myshopify.com/x?y": "mystore.myshopify.com",
		"  ":                              "",
	}
	for in, want := range tests {
		if got := ShopHost(in); got != want {
			t.Errorf("ShopHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNextPageURL(t *testing.T) {
	link := `<https://s.myshopify.com/admin/api/2023-10/orders.json?limit=250&page_info=abc>; rel="previous", ` +
		`<https://s.myshopify.com/admin/api/2023-10/orders.json?limit=250&page_info=def>; rel="next"`
	assert.Equal(t, "https://s.myshopify.com/admin/api/2023-10/orders.json?limit=250&page_info=def", NextPageURL(link))
	assert.Equal(t, "", NextPageURL(`<https://x/y>; rel="previous"`))
	assert.Equal(t, "", NextPageURL(""))
}

func TestCents(t *testing.T) {
	tests := map[string]int64{
		"19.99":  1999,
		"100":    10000,
		"0.005":  1,
		"":       0,
		"abc":    0,
		"249.50": 24950,
	}
	for in, want := range tests {
		if got := Cents(in); got != want {
			t.Errorf("Cents(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestGetShop_SendsTokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shop.json", r.URL.Path)
		assert.Equal(t, testToken, r.Header.Get("X-Shopify-Access-Token"))
		fmt.Fprint(w, `{"shop":{"id":7,"name":"Test Store","currency":"USD","myshopify_domain":"teststore.myshopify.com"}}`)
	}))
	defer srv.Close()

	shop, err := newTestClient(t, srv).GetShop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), shop.ID)
	assert.Equal(t, "Test Store", shop.Name)
}

func TestGetShop_ErrorClassification(t *testing.T) {
	tests := []struct {
		status       int
		unauthorized bool
		notFound     bool
	}{
		{http.StatusUnauthorized, true, false},
		{http.StatusNotFound, false, true},
		{http.StatusBadRequest, false, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"errors":"nope"}`)
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv).GetShop(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.unauthorized, IsUnauthorized(err))
			assert.Equal(t, tt.notFound, IsNotFound(err))
		})
	}
}

func TestListOrders_FollowsLinkPagination(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page_info") {
		case "":
			assert.Equal(t, "any", r.URL.Query().Get("status"))
			assert.Equal(t, "250", r.URL.Query().Get("limit"))
			w.Header().Set("Link", fmt.Sprintf(`<%s/orders.json?limit=250&page_info=p2>; rel="next"`, srv.URL))
			fmt.Fprint(w, `{"orders":[{"id":1,"total_price":"10.00"},{"id":2,"total_price":"20.00"}]}`)
		case "p2":
			assert.Empty(t, r.URL.Query().Get("status"))
			fmt.Fprint(w, `{"orders":[{"id":3,"total_price":"30.00","line_items":[{"id":9,"quantity":2,"price":"15.00"}]}]}`)
		}
	}))
	defer srv.Close()

	orders, err := newTestClient(t, srv).ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(3), orders[2].ID)
	assert.Equal(t, int64(3000), orders[2].LineItems[0].LinePriceCents())
	assert.True(t, strings.Contains(string(orders[0].Raw), `"id":1`))
}

func TestListCustomers_StopsAtMaxPages(t *testing.T) {
	var calls int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Link", fmt.Sprintf(`<%s/customers.json?page_info=p%d>; rel="next"`, srv.URL, n+1))
		fmt.Fprintf(w, `{"customers":[{"id":%d}]}`, n)
	}))
	defer srv.Close()

	customers, err := newTestClient(t, srv, WithMaxPages(3)).ListCustomers(context.Background())
	require.NoError(t, err)
	assert.Len(t, customers, 3)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestListInventoryLevels_BatchesIDs(t *testing.T) {
	var batches []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		batches = append(batches, r.URL.Query().Get("inventory_item_ids"))
		fmt.Fprint(w, `{"inventory_levels":[{"inventory_item_id":1,"location_id":5,"available":3}]}`)
	}))
	defer srv.Close()

	ids := make([]int64, 60)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	levels, err := newTestClient(t, srv).ListInventoryLevels(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, batches, 2)
	assert.Len(t, strings.Split(batches[0], ","), 50)
	assert.Len(t, levels, 2)
	assert.Equal(t, 3, levels[0].AvailableOrZero())
}

func TestListReports_Unsupported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).ListReports(context.Background())
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, WithBreaker(2, time.Minute))
	for i := 0; i < 2; i++ {
		_, err := c.GetShop(context.Background())
		require.Error(t, err)
	}
	_, err := c.GetShop(context.Background())
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantMsg string
	}{
		{"ok", http.StatusOK, ""},
		{"unauthorized", http.StatusUnauthorized, MsgInvalidAccessToken},
		{"unknown shop", http.StatusNotFound, MsgShopNotFound},
		{"other failure", http.StatusBadRequest, "Failed to connect to Shopify: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					fmt.Fprint(w, `{"shop":{"id":1,"name":"Test"}}`)
				}
			}))
			defer srv.Close()

			err := newTestClient(t, srv).ValidateCredentials(context.Background())
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var credErr *CredentialError
			require.ErrorAs(t, err, &credErr)
			assert.True(t, strings.HasPrefix(credErr.Message, tt.wantMsg), credErr.Message)
		})
	}
}

func TestClassifyCredentialError_ShortToken(t *testing.T) {
	_, err := NewClient("store.myshopify.com", "short")
	var credErr *CredentialError
	require.ErrorAs(t, ClassifyCredentialError(err), &credErr)
	assert.Equal(t, MsgInvalidAccessToken, credErr.Message)
	assert.ErrorIs(t, credErr, ErrAccessTokenTooShort)
}
