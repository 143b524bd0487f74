package audit

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/noah-isme/storefront/internal/common"
)

// RequestContext captures the request metadata that Record attaches to
// entries written while the request is handled.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		if reqID == "" {
			reqID = strings.TrimSpace(r.Header.Get("X-Request-ID"))
		}
		info := requestInfo{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: reqID,
			IP:        common.ClientIP(r),
		}
		next.ServeHTTP(w, r.WithContext(withRequestInfo(r.Context(), info)))
	})
}
