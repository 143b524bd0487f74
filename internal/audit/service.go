package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/common"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/obs"
)

// Store defines the database operations required for auditing.
type Store interface {
	InsertAuditLog(ctx context.Context, arg dbgen.InsertAuditLogParams) error
	ListAuditLogs(ctx context.Context, arg dbgen.ListAuditLogsParams) ([]dbgen.AuditLog, error)
}

// Service persists audit entries for staff actions.
type Service struct {
	Store   Store
	Enabled bool
	Logger  zerolog.Logger
}

// Record writes an audit entry for the acting user on ctx. Failures are
// logged and never surface to the caller.
func (s *Service) Record(ctx context.Context, action, resourceType, resourceID string, metadata map[string]any) {
	if s == nil || !s.Enabled || s.Store == nil {
		return
	}
	params := dbgen.InsertAuditLogParams{
		Action:       strings.TrimSpace(action),
		ResourceType: strings.TrimSpace(resourceType),
		ResourceID:   strings.TrimSpace(resourceID),
		StatusCode:   http.StatusOK,
		Metadata:     toJSONB(metadata),
	}
	if userID, ok := common.UserID(ctx); ok {
		params.ActorID = toNullUUID(userID)
	}
	if info, ok := requestInfoFrom(ctx); ok {
		params.Method = info.Method
		params.Route = info.route(ctx)
		params.RequestID = info.RequestID
		params.Ip = info.IP
	}
	if err := s.Store.InsertAuditLog(ctx, params); err != nil {
		s.Logger.Warn().Err(err).Str("action", params.Action).Str("resource_id", params.ResourceID).Msg("audit insert failed")
	}
}

// List returns audit entries, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]dbgen.AuditLog, error) {
	if s == nil || s.Store == nil {
		return nil, common.NewAppError("AUDIT_NOT_CONFIGURED", "audit store not configured", http.StatusInternalServerError, nil)
	}
	return s.Store.ListAuditLogs(ctx, dbgen.ListAuditLogsParams{Limit: int32(limit), Offset: int32(offset)})
}

type requestInfoKey struct{}

type requestInfo struct {
	Method    string
	Path      string
	RequestID string
	IP        string
}

func (i requestInfo) route(ctx context.Context) string {
	return obs.Route(ctx, i.Path)
}

func requestInfoFrom(ctx context.Context) (requestInfo, bool) {
	info, ok := ctx.Value(requestInfoKey{}).(requestInfo)
	return info, ok
}

func toNullUUID(value string) pgtype.UUID {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

func toJSONB(metadata map[string]any) []byte {
	if len(metadata) == 0 {
		return []byte("{}")
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return []byte("{}")
	}
	return data
}

func withRequestInfo(ctx context.Context, info requestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}
