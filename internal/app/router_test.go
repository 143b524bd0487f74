package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/analytics"
	"github.com/noah-isme/storefront/internal/auth"
	"github.com/noah-isme/storefront/internal/common"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/health"
)

const routerSecret = "router-test-secret"

type okChecker struct{}

func (okChecker) PingDB(context.Context, time.Duration) error    { return nil }
func (okChecker) PingRedis(context.Context, time.Duration) error { return nil }

type staticRoles map[string][]string

func (s staticRoles) Roles(_ context.Context, userID string) ([]string, error) {
	if roles, ok := s[userID]; ok {
		return roles, nil
	}
	return []string{common.RoleCustomer}, nil
}

type summaryStub struct{}

func (summaryStub) SummarizeOrdersByStatus(context.Context) ([]dbgen.SummarizeOrdersByStatusRow, error) {
	return []dbgen.SummarizeOrdersByStatusRow{
		{Status: dbgen.OrderStatusApproved, OrderCount: 1, Revenue: decimal.RequireFromString("1800")},
	}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	verifier, err := auth.NewVerifier(auth.VerifierConfig{Secret: routerSecret})
	require.NoError(t, err)
	roles := staticRoles{"admin-1": {common.RoleAdmin}}

	return NewRouter(RouterConfig{
		Logger:        zerolog.Nop(),
		Auth:          auth.Middleware{Verifier: verifier, Roles: roles, Logger: zerolog.Nop()},
		Idem:          common.Idem{R: rdb, TTL: time.Minute},
		BodyLimit:     1 << 20,
		SecureHeaders: true,
	}, Handlers{
		Health:    health.Handler{Checker: okChecker{}},
		Analytics: &analytics.Handler{Svc: &analytics.Service{Q: summaryStub{}, R: rdb, TTL: time.Minute}},
	})
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	tok, err := jwt.NewBuilder().Subject(subject).Expiration(time.Now().Add(time.Minute)).Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte(routerSecret)))
	require.NoError(t, err)
	return "Bearer " + string(signed)
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(t)
	health.SetReady(true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterCheckoutRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterAdminRoutesRequireAdminRole(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/overview", nil)
	req.Header.Set("Authorization", bearer(t, "customer-1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/overview", nil)
	req.Header.Set("Authorization", bearer(t, "admin-1"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"approvedRevenue":"1800"`)
}
