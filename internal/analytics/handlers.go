package analytics

import (
	"net/http"
	"strconv"

	"github.com/noah-isme/storefront/internal/common"
)

type Handler struct {
	Svc *Service
}

// Overview serves GET /admin/overview. refresh=true drops the cached summary
// before recomputing it.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		h.Svc.Invalidate(r.Context())
	}
	out, err := h.Svc.Overview(r.Context())
	if err != nil {
		common.WriteError(w, common.NewAppError("ANALYTICS_UNAVAILABLE", "overview unavailable", http.StatusServiceUnavailable, err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}
