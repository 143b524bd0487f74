package audit

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
)

// Handler serves GET /admin/audit.
type Handler struct {
	Svc *Service
}

type entryView struct {
	ID           string          `json:"id"`
	ActorID      string          `json:"actorId,omitempty"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resourceType"`
	ResourceID   string          `json:"resourceId"`
	Method       string          `json:"method,omitempty"`
	Route        string          `json:"route,omitempty"`
	StatusCode   int32           `json:"statusCode"`
	RequestID    string          `json:"requestId,omitempty"`
	IP           string          `json:"ip,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func toView(row dbgen.AuditLog) entryView {
	v := entryView{
		ID:           db.UUIDString(row.ID),
		Action:       row.Action,
		ResourceType: row.ResourceType,
		ResourceID:   row.ResourceID,
		Method:       row.Method,
		Route:        row.Route,
		StatusCode:   row.StatusCode,
		RequestID:    row.RequestID,
		IP:           row.Ip,
		CreatedAt:    row.CreatedAt.Time,
	}
	if row.ActorID.Valid {
		v.ActorID = db.UUIDString(row.ActorID)
	}
	if json.Valid(row.Metadata) {
		v.Metadata = row.Metadata
	}
	return v
}

func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	page := common.ParsePagination(r, 50)
	rows, err := h.Svc.List(r.Context(), page.PerPage, page.Offset())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out := make([]entryView, 0, len(rows))
	for _, row := range rows {
		out = append(out, toView(row))
	}
	page.TotalItems = len(out)
	common.JSON(w, http.StatusOK, map[string]any{"data": out, "meta": page})
}
