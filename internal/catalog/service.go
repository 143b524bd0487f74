package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
)

// LowStockThreshold marks products with fewer units than this as running low.
const LowStockThreshold = 5

// Price bands offered by the storefront filter.
const (
	PriceBandLow  = "low"
	PriceBandMid  = "mid"
	PriceBandHigh = "high"
)

var (
	bandMid  = decimal.NewFromInt(1000)
	bandHigh = decimal.NewFromInt(2500)
)

// ErrNotFound is returned when a product does not exist or is inactive.
var ErrNotFound = errors.New("product not found")

type queryProvider interface {
	ListActiveProducts(ctx context.Context, arg dbgen.ListActiveProductsParams) ([]dbgen.Product, error)
	CountActiveProducts(ctx context.Context, arg dbgen.CountActiveProductsParams) (int64, error)
	GetActiveProduct(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	GetActiveProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]dbgen.Product, error)
	ListProductBrands(ctx context.Context) ([]string, error)
	ListProductSizes(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error)
}

// Auditor records staff actions. It is satisfied by audit.Service.
type Auditor interface {
	Record(ctx context.Context, action, resourceType, resourceID string, metadata map[string]any)
}

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	queries      queryProvider
	cache        *Cache
	audit        Auditor
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	Audit        Auditor
	DefaultLimit int
	MaxLimit     int
}

// ListParams captures filters for product listing.
type ListParams struct {
	Query     string
	Brand     string
	Size      string
	PriceBand string
	Page      int
	Limit     int
}

// ProductListItem represents an entry in list responses.
type ProductListItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	Size          string          `json:"size"`
	Color         string          `json:"color"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"imageUrl"`
	StockQuantity int             `json:"stockQuantity"`
	InStock       bool            `json:"inStock"`
	LowStock      bool            `json:"lowStock"`
}

// ProductDetail is the full product payload.
type ProductDetail struct {
	ProductListItem
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Facets lists the distinct filter values among active products.
type Facets struct {
	Brands []string `json:"brands"`
	Sizes  []string `json:"sizes"`
}

// SnapshotItem is the price and stock of a product at lookup time.
type SnapshotItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// ProductListResult contains list data and pagination metadata.
type ProductListResult struct {
	Items []ProductListItem
	Total int64
	Page  int
	Limit int
}

// CreateProductInput is the staff payload for new products.
type CreateProductInput struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=5000"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	Size          string          `json:"size" validate:"max=20"`
	Brand         string          `json:"brand" validate:"max=100"`
	Color         string          `json:"color" validate:"max=50"`
	ImageURL      string          `json:"imageUrl" validate:"omitempty,url"`
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		audit:        cfg.Audit,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ParseListParams normalises raw query values into typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Query: strings.TrimSpace(values.Get("q")),
		Brand: strings.TrimSpace(values.Get("brand")),
		Size:  strings.TrimSpace(values.Get("size")),
		Page:  1,
		Limit: s.defaultLimit,
	}
	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return params, badRequest("page", "page must be a positive integer", err)
		}
		params.Page = page
	}
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 {
			return params, badRequest("limit", "limit must be a positive integer", err)
		}
		params.Limit = min(l, s.maxLimit)
	}
	band := strings.ToLower(strings.TrimSpace(values.Get("price")))
	switch band {
	case "", "all":
	case PriceBandLow, PriceBandMid, PriceBandHigh:
		params.PriceBand = band
	default:
		return params, badRequest("price", "price must be one of low, mid, high", fmt.Errorf("unknown price band %q", band))
	}
	return params, nil
}

// priceBounds maps a band to [min, max). Either bound may be absent.
func priceBounds(band string) (decimal.NullDecimal, decimal.NullDecimal) {
	switch band {
	case PriceBandLow:
		return decimal.NewNullDecimal(decimal.Zero), decimal.NewNullDecimal(bandMid)
	case PriceBandMid:
		return decimal.NewNullDecimal(bandMid), decimal.NewNullDecimal(bandHigh)
	case PriceBandHigh:
		return decimal.NewNullDecimal(bandHigh), decimal.NullDecimal{}
	default:
		return decimal.NullDecimal{}, decimal.NullDecimal{}
	}
}

// ListProducts returns active products, newest first, with pagination metadata.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (ProductListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = s.defaultLimit
	}
	key, _ := s.listCacheKey(params)
	page, err := readThrough(ctx, s.cache, key, func() (cachedList, error) {
		return s.loadProductPage(ctx, params)
	})
	if err != nil {
		return ProductListResult{}, err
	}
	return ProductListResult{Items: page.Items, Total: page.Total, Page: params.Page, Limit: params.Limit}, nil
}

func (s *Service) loadProductPage(ctx context.Context, params ListParams) (cachedList, error) {
	minPrice, maxPrice := priceBounds(params.PriceBand)
	countParams := dbgen.CountActiveProductsParams{
		Search:   optionalText(params.Query),
		Brand:    optionalText(params.Brand),
		Size:     optionalText(params.Size),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}
	total, err := s.queries.CountActiveProducts(ctx, countParams)
	if err != nil {
		return cachedList{}, fmt.Errorf("count products: %w", err)
	}
	rows, err := s.queries.ListActiveProducts(ctx, dbgen.ListActiveProductsParams{
		Search:      countParams.Search,
		Brand:       countParams.Brand,
		Size:        countParams.Size,
		MinPrice:    countParams.MinPrice,
		MaxPrice:    countParams.MaxPrice,
		LimitCount:  int32(params.Limit),
		OffsetCount: int32((params.Page - 1) * params.Limit),
	})
	if err != nil {
		return cachedList{}, fmt.Errorf("list products: %w", err)
	}
	items := make([]ProductListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToListItem(row))
	}
	return cachedList{Items: items, Total: total}, nil
}

// Facets returns distinct brands and sizes for the filter controls.
func (s *Service) Facets(ctx context.Context) (Facets, error) {
	return readThrough(ctx, s.cache, facetsCacheKey, func() (Facets, error) {
		brands, err := s.queries.ListProductBrands(ctx)
		if err != nil {
			return Facets{}, fmt.Errorf("list brands: %w", err)
		}
		sizes, err := s.queries.ListProductSizes(ctx)
		if err != nil {
			return Facets{}, fmt.Errorf("list sizes: %w", err)
		}
		return Facets{Brands: nonNil(brands), Sizes: nonNil(sizes)}, nil
	})
}

// GetProduct returns the detail of an active product.
func (s *Service) GetProduct(ctx context.Context, id string) (ProductDetail, error) {
	pid, err := db.ParseUUID(id)
	if err != nil {
		return ProductDetail{}, notFound(err)
	}
	return readThrough(ctx, s.cache, detailCacheKey(db.UUIDString(pid)), func() (ProductDetail, error) {
		row, err := s.queries.GetActiveProduct(ctx, pid)
		if err != nil {
			if db.IsNoRows(err) {
				return ProductDetail{}, notFound(err)
			}
			return ProductDetail{}, fmt.Errorf("get product: %w", err)
		}
		return toDetail(row), nil
	})
}

// Snapshot looks up price and stock for the given product ids. Unknown,
// inactive and malformed ids are omitted from the result.
func (s *Service) Snapshot(ctx context.Context, ids []string) (map[string]SnapshotItem, error) {
	return LoadSnapshot(ctx, s.queries, ids)
}

type snapshotQuerier interface {
	GetActiveProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]dbgen.Product, error)
}

// LoadSnapshot reads a snapshot through q, which may be transaction-scoped.
func LoadSnapshot(ctx context.Context, q snapshotQuerier, ids []string) (map[string]SnapshotItem, error) {
	out := make(map[string]SnapshotItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	pids := make([]pgtype.UUID, 0, len(ids))
	for _, id := range ids {
		pid, err := db.ParseUUID(id)
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	if len(pids) == 0 {
		return out, nil
	}
	rows, err := q.GetActiveProductsByIDs(ctx, pids)
	if err != nil {
		return nil, fmt.Errorf("load product snapshot: %w", err)
	}
	for _, row := range rows {
		id := db.UUIDString(row.ID)
		out[id] = SnapshotItem{
			ProductID: id,
			Name:      row.Name,
			ImageURL:  row.ImageUrl,
			Price:     row.Price,
			Stock:     int(row.StockQuantity),
		}
	}
	return out, nil
}

// CreateProduct inserts a product on behalf of a staff member.
func (s *Service) CreateProduct(ctx context.Context, actorID string, in CreateProductInput) (ProductDetail, error) {
	if err := common.Validate(in); err != nil {
		return ProductDetail{}, err
	}
	if in.Price.IsNegative() {
		return ProductDetail{}, badRequest("price", "price must not be negative", nil)
	}
	actor, err := db.ParseUUID(actorID)
	if err != nil {
		return ProductDetail{}, common.Unauthorized("authentication required")
	}
	row, err := s.queries.CreateProduct(ctx, dbgen.CreateProductParams{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price.Round(2),
		StockQuantity: int32(in.StockQuantity),
		Size:          strings.TrimSpace(in.Size),
		Brand:         strings.TrimSpace(in.Brand),
		Color:         strings.TrimSpace(in.Color),
		ImageUrl:      strings.TrimSpace(in.ImageURL),
		CreatedBy:     actor,
	})
	if err != nil {
		return ProductDetail{}, fmt.Errorf("create product: %w", err)
	}
	s.cache.Invalidate(ctx, listCacheKey, facetsCacheKey)
	detail := toDetail(row)
	if s.audit != nil {
		s.audit.Record(ctx, "product.create", "product", detail.ID, map[string]any{
			"name":  detail.Name,
			"price": detail.Price.String(),
			"stock": detail.StockQuantity,
		})
	}
	return detail, nil
}

// ToListItem converts a product row into its list representation.
func ToListItem(row dbgen.Product) ProductListItem {
	stock := int(row.StockQuantity)
	return ProductListItem{
		ID:            db.UUIDString(row.ID),
		Name:          row.Name,
		Brand:         row.Brand,
		Size:          row.Size,
		Color:         row.Color,
		Price:         row.Price,
		ImageURL:      row.ImageUrl,
		StockQuantity: stock,
		InStock:       stock > 0,
		LowStock:      IsLowStock(stock),
	}
}

func toDetail(row dbgen.Product) ProductDetail {
	return ProductDetail{
		ProductListItem: ToListItem(row),
		Description:     row.Description,
		CreatedAt:       row.CreatedAt.Time,
	}
}

// IsLowStock reports whether a product is in stock but below the threshold.
func IsLowStock(stock int) bool {
	return stock > 0 && stock < LowStockThreshold
}

type cachedList struct {
	Items []ProductListItem `json:"items"`
	Total int64             `json:"total"`
}

const (
	listCacheKey   = "catalog:products:list:first"
	facetsCacheKey = "catalog:facets"
)

// Only the unfiltered first page is cached; it is what the storefront lands on.
func (s *Service) listCacheKey(params ListParams) (string, bool) {
	if s.cache == nil || params.Page != 1 || params.Limit != s.defaultLimit {
		return "", false
	}
	if params.Query != "" || params.Brand != "" || params.Size != "" || params.PriceBand != "" {
		return "", false
	}
	return listCacheKey, true
}

func detailCacheKey(id string) string {
	return "catalog:products:detail:" + id
}

func optionalText(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func notFound(err error) *common.AppError {
	return common.NotFound("product not found", fmt.Errorf("%w: %v", ErrNotFound, err))
}

func badRequest(field, message string, err error) *common.AppError {
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details: map[string]any{
			"field": field,
		},
	}
}
