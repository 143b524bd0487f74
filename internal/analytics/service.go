package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/storefront/internal/db/gen"
)

const overviewKey = "an:overview"

// Querier defines the database access required for analytics operations.
type Querier interface {
	SummarizeOrdersByStatus(ctx context.Context) ([]dbgen.SummarizeOrdersByStatusRow, error)
}

// Service provides cached access to order aggregates.
type Service struct {
	Q   Querier
	R   *redis.Client
	TTL time.Duration
	Now func() time.Time
}

// Overview is the admin dashboard summary. Revenue counts approved orders only.
type Overview struct {
	TotalOrders     int64            `json:"totalOrders"`
	OrdersByStatus  map[string]int64 `json:"ordersByStatus"`
	ApprovedRevenue decimal.Decimal  `json:"approvedRevenue"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Overview returns order counts by status and approved revenue.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	if s == nil || s.Q == nil {
		return Overview{}, fmt.Errorf("analytics service not configured")
	}
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}
	rows, err := s.Q.SummarizeOrdersByStatus(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("summarize orders: %w", err)
	}
	out := Overview{
		OrdersByStatus: map[string]int64{
			string(dbgen.OrderStatusPending):  0,
			string(dbgen.OrderStatusApproved): 0,
			string(dbgen.OrderStatusRejected): 0,
		},
		ApprovedRevenue: decimal.Zero,
		GeneratedAt:     s.now(),
	}
	for _, row := range rows {
		out.OrdersByStatus[strings.ToLower(string(row.Status))] = row.OrderCount
		out.TotalOrders += row.OrderCount
		if row.Status == dbgen.OrderStatusApproved {
			out.ApprovedRevenue = row.Revenue
		}
	}
	s.store(ctx, out)
	return out, nil
}

// Invalidate drops the cached overview.
func (s *Service) Invalidate(ctx context.Context) {
	if s == nil || s.R == nil {
		return
	}
	_ = s.R.Del(ctx, overviewKey).Err()
}

func (s *Service) fromCache(ctx context.Context) (Overview, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Overview{}, false
	}
	data, err := s.R.Get(ctx, overviewKey).Bytes()
	if err != nil {
		return Overview{}, false
	}
	var out Overview
	if err := json.Unmarshal(data, &out); err != nil {
		return Overview{}, false
	}
	return out, true
}

func (s *Service) store(ctx context.Context, value Overview) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, overviewKey, data, s.TTL).Err()
}
