package analytics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/analytics"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
)

type stubQueries struct {
	calls int
}

func (s *stubQueries) SummarizeOrdersByStatus(ctx context.Context) ([]dbgen.SummarizeOrdersByStatusRow, error) {
	s.calls++
	return []dbgen.SummarizeOrdersByStatusRow{
		{Status: dbgen.OrderStatusApproved, OrderCount: 3, Revenue: decimal.RequireFromString("5400")},
		{Status: dbgen.OrderStatusPending, OrderCount: 2, Revenue: decimal.RequireFromString("1800")},
	}, nil
}

func TestOverviewCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	queries := &stubQueries{}
	svc := &analytics.Service{Q: queries, R: rdb, TTL: time.Minute}

	first, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(5), first.TotalOrders)
	require.Equal(t, int64(0), first.OrdersByStatus["rejected"])
	require.True(t, first.ApprovedRevenue.Equal(decimal.NewFromInt(5400)))

	_, err = svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, queries.calls)

	svc.Invalidate(context.Background())
	_, err = svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, queries.calls)
}

func TestOverviewHandler(t *testing.T) {
	h := &analytics.Handler{Svc: &analytics.Service{Q: &stubQueries{}}}
	rec := httptest.NewRecorder()
	h.Overview(rec, httptest.NewRequest(http.MethodGet, "/admin/overview", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"approvedRevenue":"5400"`)
}

func TestOverviewHandlerRefresh(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	queries := &stubQueries{}
	h := &analytics.Handler{Svc: &analytics.Service{Q: queries, R: rdb, TTL: time.Minute}}

	for _, target := range []string{"/admin/overview", "/admin/overview", "/admin/overview?refresh=true"} {
		rec := httptest.NewRecorder()
		h.Overview(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, 2, queries.calls)
}

func TestOverviewHandlerUnconfigured(t *testing.T) {
	h := &analytics.Handler{Svc: &analytics.Service{}}
	rec := httptest.NewRecorder()
	h.Overview(rec, httptest.NewRequest(http.MethodGet, "/admin/overview", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "ANALYTICS_UNAVAILABLE")
}
