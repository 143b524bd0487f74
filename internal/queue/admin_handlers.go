package queue

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/common"
)

// Inspector is the subset of *asynq.Inspector used by the admin endpoints.
type Inspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	ListArchivedTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	RunTask(queue, id string) error
	RunAllArchivedTasks(queue string) (int, error)
}

// AdminHandler exposes queue statistics and dead-letter replay.
type AdminHandler struct {
	Inspector Inspector
	Queue     string
	PageSize  int
	Logger    zerolog.Logger
}

type dlqItem struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Retried      int             `json:"retried"`
	MaxRetry     int             `json:"maxRetry"`
	LastError    string          `json:"lastError,omitempty"`
	LastFailedAt *time.Time      `json:"lastFailedAt,omitempty"`
}

type replayRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

// ListDLQ handles GET /admin/queue/dlq.
func (h *AdminHandler) ListDLQ(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Inspector == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "queue inspector unavailable", nil)
		return
	}
	p := common.ParsePagination(r, h.pageSize())
	tasks, err := h.Inspector.ListArchivedTasks(h.queue(), asynq.PageSize(p.PerPage), asynq.Page(p.Page))
	if err != nil && !errors.Is(err, asynq.ErrQueueNotFound) {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	kind := strings.TrimSpace(r.URL.Query().Get("kind"))
	items := make([]dlqItem, 0, len(tasks))
	for _, t := range tasks {
		if kind != "" && t.Type != kind {
			continue
		}
		item := dlqItem{ID: t.ID, Kind: t.Type, Retried: t.Retried, MaxRetry: t.MaxRetry, LastError: t.LastErr}
		if json.Valid(t.Payload) {
			item.Payload = json.RawMessage(t.Payload)
		}
		if !t.LastFailedAt.IsZero() {
			at := t.LastFailedAt
			item.LastFailedAt = &at
		}
		items = append(items, item)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items, "pagination": p})
}

// ReplayDLQ handles POST /admin/queue/dlq/replay.
func (h *AdminHandler) ReplayDLQ(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Inspector == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "queue inspector unavailable", nil)
		return
	}
	var req replayRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	ids := uniqueStrings(req.IDs)
	if len(ids) == 0 && !req.All {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "ids or all required", nil)
		return
	}
	if req.All {
		n, err := h.Inspector.RunAllArchivedTasks(h.queue())
		if err != nil {
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
			return
		}
		h.Logger.Info().Int("count", n).Msg("replayed archived tasks")
		common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"replayed": n}})
		return
	}
	replayed := make([]string, 0, len(ids))
	failed := make(map[string]string)
	for _, id := range ids {
		if err := h.Inspector.RunTask(h.queue(), id); err != nil {
			failed[id] = err.Error()
			continue
		}
		replayed = append(replayed, id)
	}
	resp := map[string]any{"replayed": replayed}
	if len(failed) > 0 {
		resp["failed"] = failed
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": resp})
}

// Stats handles GET /admin/queue/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Inspector == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "queue inspector unavailable", nil)
		return
	}
	info, err := h.Inspector.GetQueueInfo(h.queue())
	if errors.Is(err, asynq.ErrQueueNotFound) {
		common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"queue": h.queue(), "size": 0}})
		return
	}
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"queue":     info.Queue,
		"size":      info.Size,
		"pending":   info.Pending,
		"active":    info.Active,
		"scheduled": info.Scheduled,
		"retry":     info.Retry,
		"archived":  info.Archived,
		"processed": info.Processed,
		"failed":    info.Failed,
		"latencyMs": info.Latency.Milliseconds(),
		"paused":    info.Paused,
	}})
}

func (h *AdminHandler) queue() string {
	if h.Queue == "" {
		return DefaultQueue
	}
	return h.Queue
}

func (h *AdminHandler) pageSize() int {
	if h.PageSize <= 0 {
		return 50
	}
	return h.PageSize
}

func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
