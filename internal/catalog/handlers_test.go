package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/common"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
)

type productsResponse struct {
	Data       []catalog.ProductListItem `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		TotalItems int `json:"total_items"`
	} `json:"pagination"`
}

type productDetailResponse struct {
	Data catalog.ProductDetail `json:"data"`
}

type facetsResponse struct {
	Data catalog.Facets `json:"data"`
}

func TestCatalogHandlers(t *testing.T) {
	queries := newFakeCatalogQueries()
	svc, err := catalog.NewService(catalog.ServiceConfig{Queries: queries, DefaultLimit: 20, MaxLimit: 100})
	require.NoError(t, err)
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	t.Run("lists newest first with total", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products?limit=2", nil)
		rec := httptest.NewRecorder()
		handler.Products(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "4", rec.Header().Get("X-Total-Count"))

		var resp productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		require.Equal(t, "Court Low", resp.Data[0].Name)
		require.Equal(t, 2, resp.Pagination.PerPage)
		require.Equal(t, 4, resp.Pagination.TotalItems)
	})

	t.Run("price band mid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products?price=mid", nil)
		rec := httptest.NewRecorder()
		handler.Products(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		for _, item := range resp.Data {
			require.True(t, item.Price.GreaterThanOrEqual(decimal.NewFromInt(1000)))
			require.True(t, item.Price.LessThan(decimal.NewFromInt(2500)))
		}
		require.Len(t, resp.Data, 2)
	})

	t.Run("search matches brand case-insensitively", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products?q=NIKE", nil)
		rec := httptest.NewRecorder()
		handler.Products(rec, req)
		var resp productsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
	})

	t.Run("rejects unknown price band", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products?price=luxury", nil)
		rec := httptest.NewRecorder()
		handler.Products(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("facets", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/facets", nil)
		rec := httptest.NewRecorder()
		handler.Facets(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp facetsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, []string{"Adidas", "Nike", "Vans"}, resp.Data.Brands)
		require.Equal(t, []string{"42", "43"}, resp.Data.Sizes)
	})

	t.Run("detail flags low stock", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ProductDetail(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", queries.ids[1]))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp productDetailResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Data.LowStock)
		require.True(t, resp.Data.InStock)
		require.Equal(t, "Classic runner", resp.Data.Description)
	})

	t.Run("detail of unknown product", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ProductDetail(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", uuid.NewString()))
		require.Equal(t, http.StatusNotFound, rec.Code)

		rec = httptest.NewRecorder()
		handler.ProductDetail(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "garbage"))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("create product requires name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/staff/products", strings.NewReader(`{"price":"10","stockQuantity":1}`))
		req = req.WithContext(common.WithUserID(req.Context(), uuid.NewString()))
		rec := httptest.NewRecorder()
		handler.CreateProduct(rec, req)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("create product", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/staff/products", strings.NewReader(`{"name":"Slip On","price":"799.5","stockQuantity":3,"brand":"Vans","size":"41"}`))
		req = req.WithContext(common.WithUserID(req.Context(), uuid.NewString()))
		rec := httptest.NewRecorder()
		handler.CreateProduct(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
		var resp productDetailResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Slip On", resp.Data.Name)
		require.True(t, resp.Data.Price.Equal(decimal.RequireFromString("799.50")))
		require.True(t, resp.Data.LowStock)
	})
}

func TestSnapshotOmitsUnknownIDs(t *testing.T) {
	queries := newFakeCatalogQueries()
	svc, err := catalog.NewService(catalog.ServiceConfig{Queries: queries})
	require.NoError(t, err)

	snap, err := svc.Snapshot(context.Background(), []string{queries.ids[0], uuid.NewString(), "bad"})
	require.NoError(t, err)
	require.Len(t, snap, 1)
	item := snap[queries.ids[0]]
	require.Equal(t, 12, item.Stock)
	require.True(t, item.Price.Equal(decimal.NewFromInt(900)))
}

func TestListCacheServesFirstPage(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	queries := newFakeCatalogQueries()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Queries:      queries,
		Cache:        catalog.NewCache(rdb, time.Minute),
		DefaultLimit: 20,
	})
	require.NoError(t, err)

	ctx := context.Background()
	first, err := svc.ListProducts(ctx, catalog.ListParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	second, err := svc.ListProducts(ctx, catalog.ListParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, len(first.Items), len(second.Items))
	require.Equal(t, 1, queries.listCalls)

	_, err = svc.CreateProduct(ctx, uuid.NewString(), catalog.CreateProductInput{Name: "New", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)
	third, err := svc.ListProducts(ctx, catalog.ListParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Equal(t, 2, queries.listCalls)
	require.Len(t, third.Items, len(first.Items)+1)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

type fakeCatalogQueries struct {
	products  []dbgen.Product
	ids       []string
	listCalls int
}

func newFakeCatalogQueries() *fakeCatalogQueries {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	seed := []struct {
		name, brand, size string
		price             int64
		stock             int32
		active            bool
	}{
		{"Air Max", "Nike", "42", 900, 12, true},
		{"Samba", "Adidas", "43", 1500, 3, true},
		{"Dunk", "Nike", "42", 2400, 0, true},
		{"Old Skool", "Vans", "", 3100, 8, false},
		{"Court Low", "Vans", "43", 2600, 9, true},
	}
	f := &fakeCatalogQueries{}
	for i, s := range seed {
		id := uuid.New()
		f.ids = append(f.ids, id.String())
		f.products = append(f.products, dbgen.Product{
			ID:            pgtype.UUID{Bytes: id, Valid: true},
			Name:          s.name,
			Description:   "Classic runner",
			Price:         decimal.NewFromInt(s.price),
			StockQuantity: s.stock,
			Size:          s.size,
			Brand:         s.brand,
			IsActive:      s.active,
			CreatedAt:     pgtype.Timestamptz{Time: base.Add(time.Duration(i) * time.Hour), Valid: true},
		})
	}
	return f
}

func (f *fakeCatalogQueries) filter(search, brand, size pgtype.Text, minP, maxP decimal.NullDecimal) []dbgen.Product {
	var out []dbgen.Product
	for _, p := range f.products {
		if !p.IsActive {
			continue
		}
		if search.Valid {
			needle := strings.ToLower(search.String)
			hay := strings.ToLower(p.Name + " " + p.Brand + " " + p.Description)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if brand.Valid && p.Brand != brand.String {
			continue
		}
		if size.Valid && p.Size != size.String {
			continue
		}
		if minP.Valid && p.Price.LessThan(minP.Decimal) {
			continue
		}
		if maxP.Valid && !p.Price.LessThan(maxP.Decimal) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time) })
	return out
}

func (f *fakeCatalogQueries) ListActiveProducts(_ context.Context, arg dbgen.ListActiveProductsParams) ([]dbgen.Product, error) {
	f.listCalls++
	rows := f.filter(arg.Search, arg.Brand, arg.Size, arg.MinPrice, arg.MaxPrice)
	start := min(int(arg.OffsetCount), len(rows))
	end := min(start+int(arg.LimitCount), len(rows))
	return rows[start:end], nil
}

func (f *fakeCatalogQueries) CountActiveProducts(_ context.Context, arg dbgen.CountActiveProductsParams) (int64, error) {
	return int64(len(f.filter(arg.Search, arg.Brand, arg.Size, arg.MinPrice, arg.MaxPrice))), nil
}

func (f *fakeCatalogQueries) GetActiveProduct(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	for _, p := range f.products {
		if p.ID == id && p.IsActive {
			return p, nil
		}
	}
	return dbgen.Product{}, pgx.ErrNoRows
}

func (f *fakeCatalogQueries) GetActiveProductsByIDs(_ context.Context, ids []pgtype.UUID) ([]dbgen.Product, error) {
	var out []dbgen.Product
	for _, id := range ids {
		for _, p := range f.products {
			if p.ID == id && p.IsActive {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakeCatalogQueries) ListProductBrands(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if p.IsActive && p.Brand != "" && !seen[p.Brand] {
			seen[p.Brand] = true
			out = append(out, p.Brand)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeCatalogQueries) ListProductSizes(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if p.IsActive && p.Size != "" && !seen[p.Size] {
			seen[p.Size] = true
			out = append(out, p.Size)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeCatalogQueries) CreateProduct(_ context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error) {
	p := dbgen.Product{
		ID:            pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Name:          arg.Name,
		Description:   arg.Description,
		Price:         arg.Price,
		StockQuantity: arg.StockQuantity,
		Size:          arg.Size,
		Brand:         arg.Brand,
		Color:         arg.Color,
		ImageUrl:      arg.ImageUrl,
		IsActive:      true,
		CreatedBy:     arg.CreatedBy,
		CreatedAt:     pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	f.products = append(f.products, p)
	return p, nil
}
