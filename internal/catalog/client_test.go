package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khaizansolutions/khaizan-storefront/pkg/enums"
	pkgerrors "github.com/khaizansolutions/khaizan-storefront/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestListProductsDecodesEnvelope(t *testing.T) {
	t.Parallel()

	var gotQuery map[string][]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": 2,
			"results": []map[string]any{
				{"id": 1, "name": "Stapler", "price": 45.5},
				{"id": "2", "name": "Toner", "price": "220"},
			},
		})
	}))

	page, err := client.ListProducts(context.Background(), ListParams{
		Category:    "stationery",
		ProductType: enums.ProductTypeNew,
		Search:      "sta",
		Page:        2,
	})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if page.Count != 2 || len(page.Results) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Results[0].ID.String() != "1" || page.Results[1].Price.String() != "220" {
		t.Fatalf("numeric fields did not normalize: %+v", page.Results)
	}

	if got := gotQuery["page_size"]; len(got) != 1 || got[0] != "20" {
		t.Fatalf("expected default page_size 20, got %v", got)
	}
	if got := gotQuery["subcategory__category"]; len(got) != 1 || got[0] != "stationery" {
		t.Fatalf("category param missing: %v", gotQuery)
	}
	if got := gotQuery["product_type"]; len(got) != 1 || got[0] != "new" {
		t.Fatalf("product_type param missing: %v", gotQuery)
	}
	if got := gotQuery["page"]; len(got) != 1 || got[0] != "2" {
		t.Fatalf("page param missing: %v", gotQuery)
	}
}

func TestListProductsDecodesBareArray(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "1", "name": "Stapler"},
		})
	}))

	page, err := client.ListProducts(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if page.Count != 1 || len(page.Results) != 1 || page.Results[0].Name != "Stapler" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestListProductsClampsPageSize(t *testing.T) {
	t.Parallel()

	var got string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("page_size")
		_, _ = w.Write([]byte("[]"))
	}))

	if _, err := client.ListProducts(context.Background(), ListParams{PageSize: 500}); err != nil {
		t.Fatalf("list products: %v", err)
	}
	if got != "100" {
		t.Fatalf("expected page_size clamped to 100, got %s", got)
	}
}

func TestListProductsUpstreamFailure(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	_, err := client.ListProducts(context.Background(), ListParams{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGetProductDirectHit(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/office-chair/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "7", "slug": "office-chair", "name": "Office Chair"})
	}))

	product, err := client.GetProduct(context.Background(), "office-chair")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Name != "Office Chair" {
		t.Fatalf("unexpected product: %+v", product)
	}
}

func TestGetProductFallsBackToListingScan(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/7/":
			http.NotFound(w, r)
		case "/products/":
			if got := r.URL.Query().Get("page_size"); got != "100" {
				t.Errorf("fallback scan should use a full page, got page_size %s", got)
			}
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": "6", "slug": "desk-lamp", "name": "Desk Lamp"},
				{"id": "7", "slug": "office-chair", "name": "Office Chair"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	product, err := client.GetProduct(context.Background(), "7")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Slug != "office-chair" {
		t.Fatalf("expected fallback match by id, got %+v", product)
	}
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products/" {
			_, _ = w.Write([]byte("[]"))
			return
		}
		http.NotFound(w, r)
	}))

	_, err := client.GetProduct(context.Background(), "ghost")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListByTypeFetchesProductLine(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/refurbished/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "1", "name": "LaserJet Printer", "product_type": "refurbished"},
		})
	}))

	products, err := client.ListByType(context.Background(), enums.ProductTypeRefurbished.String())
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(products) != 1 || products[0].ProductType != enums.ProductTypeRefurbished {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestListCategoriesNavbarFlag(t *testing.T) {
	t.Parallel()

	var gotNavbar string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotNavbar = r.URL.Query().Get("navbar")
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "name": "Printers"}})
	}))

	categories, err := client.ListCategories(context.Background(), true)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if gotNavbar != "true" {
		t.Fatalf("expected navbar=true, got %q", gotNavbar)
	}
	if len(categories) != 1 || categories[0].Name != "Printers" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestSubmitQuoteForwardsPayload(t *testing.T) {
	t.Parallel()

	var got QuoteSubmission
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/quotes/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode submission: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 42, "status": "received"})
	}))

	receipt, err := client.SubmitQuote(context.Background(), QuoteSubmission{
		CustomerName: "Fatima",
		Phone:        "+971500000000",
		Currency:     "AED",
		Items: []QuoteSubmissionItem{
			{ProductID: "p1", Name: "Stapler", UnitPrice: "45", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("submit quote: %v", err)
	}
	if receipt.ID.String() != "42" || receipt.Status != "received" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if got.Currency != "AED" || len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected forwarded payload: %+v", got)
	}
}

func TestSubmitQuoteRejection(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusUnprocessableEntity)
	}))

	_, err := client.SubmitQuote(context.Background(), QuoteSubmission{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
