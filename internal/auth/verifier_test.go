package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/common"
)

const testSecret = "super-secret-key"

func newTestVerifier(t *testing.T, now time.Time) *Verifier {
	t.Helper()
	v, err := NewVerifier(VerifierConfig{Secret: testSecret, Issuer: "issuer", Audience: "aud", ClockSkew: time.Second})
	require.NoError(t, err)
	v.WithNow(func() time.Time { return now })
	return v
}

func sign(t *testing.T, alg jwa.SignatureAlgorithm, build func(*jwt.Builder) *jwt.Builder) string {
	t.Helper()
	tok, err := build(jwt.NewBuilder()).Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(alg, []byte(testSecret)))
	require.NoError(t, err)
	return string(signed)
}

func validClaims(now time.Time) func(*jwt.Builder) *jwt.Builder {
	return func(b *jwt.Builder) *jwt.Builder {
		return b.Issuer("issuer").
			Audience([]string{"aud"}).
			Subject("user-1").
			IssuedAt(now).
			NotBefore(now).
			Expiration(now.Add(time.Minute)).
			Claim("email", "rani@example.com")
	}
}

func TestVerifyAcceptsValidToken(t *testing.T) {
	now := time.Now()
	claims, err := newTestVerifier(t, now).Verify(sign(t, jwa.HS256, validClaims(now)))
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "rani@example.com", claims.Email)
}

func TestVerifyRejects(t *testing.T) {
	now := time.Now()
	cases := map[string]string{
		"algorithm mismatch": sign(t, jwa.HS384, validClaims(now)),
		"issuer mismatch": sign(t, jwa.HS256, func(b *jwt.Builder) *jwt.Builder {
			return validClaims(now)(b).Issuer("other")
		}),
		"expired": sign(t, jwa.HS256, func(b *jwt.Builder) *jwt.Builder {
			return validClaims(now)(b).Expiration(now.Add(-time.Minute))
		}),
		"not yet valid": sign(t, jwa.HS256, func(b *jwt.Builder) *jwt.Builder {
			return validClaims(now)(b).NotBefore(now.Add(5 * time.Minute))
		}),
		"no subject": sign(t, jwa.HS256, func(b *jwt.Builder) *jwt.Builder {
			return validClaims(now)(b).Subject("")
		}),
		"garbage": "not-a-token",
	}
	v := newTestVerifier(t, now)
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			var appErr *common.AppError
			require.True(t, errors.As(err, &appErr))
			require.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
		})
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	now := time.Now()
	tok, err := validClaims(now)(jwt.NewBuilder()).Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("other-secret")))
	require.NoError(t, err)
	_, err = newTestVerifier(t, now).Verify(string(signed))
	require.Error(t, err)
}

type staticRoles map[string][]string

func (s staticRoles) Roles(_ context.Context, userID string) ([]string, error) {
	return s[userID], nil
}

func TestMiddlewareRoleGate(t *testing.T) {
	now := time.Now()
	m := Middleware{Verifier: newTestVerifier(t, now), Roles: staticRoles{"user-1": {common.RoleCashier}}}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := common.UserID(r.Context())
		require.Equal(t, "user-1", id)
		require.Equal(t, "rani@example.com", common.Email(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})
	staff := m.RequireAuth(m.RequireRole(common.RoleCashier, common.RoleAdmin)(ok))
	admin := m.RequireAuth(m.RequireRole(common.RoleAdmin)(ok))
	token := sign(t, jwa.HS256, validClaims(now))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	staff.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	admin.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	staff.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatePassesAnonymousThrough(t *testing.T) {
	m := Middleware{Verifier: newTestVerifier(t, time.Now())}
	called := false
	h := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := common.UserID(r.Context())
		require.False(t, ok)
		called = true
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer junk")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, called)
}
