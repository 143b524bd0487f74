package reviews_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/common"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/reviews"
)

type reviewKey struct{ product, user pgtype.UUID }

type fakeQueries struct {
	products map[pgtype.UUID]bool
	reviews  map[reviewKey]dbgen.ProductReview
}

func (f *fakeQueries) GetActiveProduct(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	if !f.products[id] {
		return dbgen.Product{}, pgx.ErrNoRows
	}
	return dbgen.Product{ID: id}, nil
}

func (f *fakeQueries) CreateReview(_ context.Context, arg dbgen.CreateReviewParams) (dbgen.ProductReview, error) {
	key := reviewKey{arg.ProductID, arg.UserID}
	if _, ok := f.reviews[key]; ok {
		return dbgen.ProductReview{}, &pgconn.PgError{Code: "23505"}
	}
	r := dbgen.ProductReview{
		ID: pgtype.UUID{Bytes: uuid.New(), Valid: true}, ProductID: arg.ProductID, UserID: arg.UserID,
		Rating: arg.Rating, ReviewText: arg.ReviewText, CreatedAt: pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	f.reviews[key] = r
	return r, nil
}

func (f *fakeQueries) ListProductReviews(_ context.Context, productID pgtype.UUID) ([]dbgen.ListProductReviewsRow, error) {
	var out []dbgen.ListProductReviewsRow
	for k, r := range f.reviews {
		if k.product == productID {
			out = append(out, dbgen.ListProductReviewsRow{ID: r.ID, ProductID: r.ProductID, UserID: r.UserID, Rating: r.Rating, ReviewText: r.ReviewText, ReviewerName: "Rani"})
		}
	}
	return out, nil
}

func (f *fakeQueries) GetProductReviewStats(_ context.Context, productID pgtype.UUID) (dbgen.GetProductReviewStatsRow, error) {
	var n, sum int64
	for k, r := range f.reviews {
		if k.product == productID {
			n++
			sum += int64(r.Rating)
		}
	}
	if n == 0 {
		return dbgen.GetProductReviewStatsRow{}, nil
	}
	return dbgen.GetProductReviewStatsRow{ReviewCount: n, AverageRating: float64(sum) / float64(n)}, nil
}

func request(method, body, productID, userID string) *http.Request {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", productID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	if userID != "" {
		ctx = common.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

func TestReviewLifecycle(t *testing.T) {
	product := uuid.New()
	q := &fakeQueries{
		products: map[pgtype.UUID]bool{{Bytes: product, Valid: true}: true},
		reviews:  map[reviewKey]dbgen.ProductReview{},
	}
	h := &reviews.Handler{Svc: &reviews.Service{Q: q}}
	alice, bob := uuid.NewString(), uuid.NewString()

	rec := httptest.NewRecorder()
	h.Create(rec, request(http.MethodPost, `{"rating":5,"reviewText":" great "}`, product.String(), alice))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"reviewText":"great"`)

	rec = httptest.NewRecorder()
	h.Create(rec, request(http.MethodPost, `{"rating":4}`, product.String(), alice))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, request(http.MethodPost, `{"rating":4}`, product.String(), bob))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, request(http.MethodPost, `{"rating":6}`, product.String(), bob))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, request(http.MethodPost, `{}`, product.String(), bob))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, request(http.MethodPost, `{"rating":3}`, uuid.NewString(), bob))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Stats(rec, request(http.MethodGet, "", product.String(), ""))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":{"count":2,"average":4.5}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.List(rec, request(http.MethodGet, "", product.String(), ""))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Rani")
}

func TestStatsRoundsAverage(t *testing.T) {
	product := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	q := &fakeQueries{products: map[pgtype.UUID]bool{product: true}, reviews: map[reviewKey]dbgen.ProductReview{}}
	svc := &reviews.Service{Q: q}
	pid := uuid.UUID(product.Bytes).String()
	for _, rating := range []int{5, 4, 4} {
		_, err := svc.Create(context.Background(), uuid.NewString(), pid, reviews.CreateInput{Rating: rating})
		require.NoError(t, err)
	}
	stats, err := svc.Stats(context.Background(), pid)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.Count)
	require.Equal(t, 4.3, stats.Average)
}
