package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/events"
	"github.com/noah-isme/storefront/internal/obs"
)

var (
	// ErrNotFound is returned for unknown orders and for orders the caller may not see.
	ErrNotFound = errors.New("order not found")
	// ErrNotPending is returned when reviewing an order that already left pending.
	ErrNotPending = errors.New("order is not pending")
)

type queryProvider interface {
	GetOrder(ctx context.Context, id pgtype.UUID) (dbgen.Order, error)
	ListOrdersByUser(ctx context.Context, arg dbgen.ListOrdersByUserParams) ([]dbgen.Order, error)
	ListOrderItems(ctx context.Context, orderID pgtype.UUID) ([]dbgen.ListOrderItemsRow, error)
	ListOrdersWithCustomer(ctx context.Context, arg dbgen.ListOrdersWithCustomerParams) ([]dbgen.ListOrdersWithCustomerRow, error)
	ReviewPendingOrder(ctx context.Context, arg dbgen.ReviewPendingOrderParams) (dbgen.Order, error)
}

// Emitter publishes domain events.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error)
}

// Auditor records staff actions.
type Auditor interface {
	Record(ctx context.Context, action, resourceType, resourceID string, metadata map[string]any)
}

// Service reads orders and applies staff review decisions.
type Service struct {
	Q      queryProvider
	Events Emitter
	Audit  Auditor
}

// Summary is an order without its items.
type Summary struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
	ReviewedBy     *string         `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time      `json:"reviewedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CustomerName   string          `json:"customerName,omitempty"`
	CustomerEmail  string          `json:"customerEmail,omitempty"`
}

// Item is a stored order line.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// Detail is an order with its items.
type Detail struct {
	Summary
	Items []Item `json:"items"`
}

// Decision is a staff review outcome.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func (s *Service) configured() error {
	if s == nil || s.Q == nil {
		return errors.New("order service not configured")
	}
	return nil
}

// ListMine returns the caller's orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID string, p common.Pagination) ([]Summary, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return nil, common.Unauthorized("authentication required")
	}
	rows, err := s.Q.ListOrdersByUser(ctx, dbgen.ListOrdersByUserParams{
		UserID: uid,
		Limit:  int32(p.PerPage),
		Offset: int32(p.Offset()),
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]Summary, 0, len(rows))
	for _, o := range rows {
		out = append(out, summaryFromOrder(o))
	}
	return out, nil
}

// Get returns an order with items. Customers only see their own orders; staff see any.
func (s *Service) Get(ctx context.Context, orderID, viewerID string, staff bool) (Detail, error) {
	if err := s.configured(); err != nil {
		return Detail{}, err
	}
	oid, err := db.ParseUUID(orderID)
	if err != nil {
		return Detail{}, ErrNotFound
	}
	o, err := s.Q.GetOrder(ctx, oid)
	if err != nil {
		if db.IsNoRows(err) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, fmt.Errorf("get order: %w", err)
	}
	if !staff && db.UUIDString(o.UserID) != viewerID {
		return Detail{}, ErrNotFound
	}
	rows, err := s.Q.ListOrderItems(ctx, oid)
	if err != nil {
		return Detail{}, fmt.Errorf("list order items: %w", err)
	}
	detail := Detail{Summary: summaryFromOrder(o), Items: make([]Item, 0, len(rows))}
	for _, it := range rows {
		detail.Items = append(detail.Items, Item{
			ProductID: db.UUIDString(it.ProductID),
			Name:      it.ProductName,
			ImageURL:  it.ProductImageUrl,
			Quantity:  int(it.Quantity),
			Price:     it.Price,
			LineTotal: it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	return detail, nil
}

// ParseStatus validates an optional status filter. Empty means all.
func ParseStatus(raw string) (dbgen.NullOrderStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch dbgen.OrderStatus(raw) {
	case "":
		return dbgen.NullOrderStatus{}, nil
	case dbgen.OrderStatusPending, dbgen.OrderStatusApproved, dbgen.OrderStatusRejected:
		return dbgen.NullOrderStatus{OrderStatus: dbgen.OrderStatus(raw), Valid: true}, nil
	default:
		return dbgen.NullOrderStatus{}, common.BadRequest("unknown order status", nil)
	}
}

// ListWithCustomer returns orders across all users with the customer's name
// and email, optionally filtered by status.
func (s *Service) ListWithCustomer(ctx context.Context, status dbgen.NullOrderStatus, p common.Pagination) ([]Summary, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	rows, err := s.Q.ListOrdersWithCustomer(ctx, dbgen.ListOrdersWithCustomerParams{
		Status:      status,
		LimitCount:  int32(p.PerPage),
		OffsetCount: int32(p.Offset()),
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]Summary, 0, len(rows))
	for _, r := range rows {
		sum := summaryFromOrder(dbgen.Order{
			ID:             r.ID,
			UserID:         r.UserID,
			TotalAmount:    r.TotalAmount,
			DiscountAmount: r.DiscountAmount,
			FinalAmount:    r.FinalAmount,
			Status:         r.Status,
			ReviewedBy:     r.ReviewedBy,
			ReviewedAt:     r.ReviewedAt,
			CreatedAt:      r.CreatedAt,
		})
		sum.CustomerName = r.CustomerName
		sum.CustomerEmail = r.CustomerEmail
		out = append(out, sum)
	}
	return out, nil
}

// Review moves a pending order to approved or rejected. Totals never change.
func (s *Service) Review(ctx context.Context, orderID, reviewerID string, decision Decision) (Summary, error) {
	if err := s.configured(); err != nil {
		return Summary{}, err
	}
	var target dbgen.OrderStatus
	switch decision {
	case DecisionApprove:
		target = dbgen.OrderStatusApproved
	case DecisionReject:
		target = dbgen.OrderStatusRejected
	default:
		return Summary{}, common.BadRequest("unknown decision", nil)
	}
	oid, err := db.ParseUUID(orderID)
	if err != nil {
		return Summary{}, ErrNotFound
	}
	rid, err := db.ParseUUID(reviewerID)
	if err != nil {
		return Summary{}, common.Unauthorized("authentication required")
	}
	o, err := s.Q.ReviewPendingOrder(ctx, dbgen.ReviewPendingOrderParams{ID: oid, Status: target, ReviewedBy: rid})
	if err != nil {
		if !db.IsNoRows(err) {
			return Summary{}, fmt.Errorf("review order: %w", err)
		}
		if _, getErr := s.Q.GetOrder(ctx, oid); getErr != nil {
			if db.IsNoRows(getErr) {
				return Summary{}, ErrNotFound
			}
			return Summary{}, fmt.Errorf("get order: %w", getErr)
		}
		return Summary{}, ErrNotPending
	}
	obs.IncOrderReview(string(decision))

	sum := summaryFromOrder(o)
	if s.Audit != nil {
		s.Audit.Record(ctx, "order."+string(decision), "order", sum.ID, map[string]any{"status": sum.Status})
	}
	if s.Events != nil {
		topic := events.TopicOrderApproved
		if target == dbgen.OrderStatusRejected {
			topic = events.TopicOrderRejected
		}
		_, _ = s.Events.Emit(ctx, topic, o.ID, map[string]any{
			"orderId":     sum.ID,
			"userId":      sum.UserID,
			"status":      sum.Status,
			"finalAmount": sum.FinalAmount,
			"reviewedBy":  reviewerID,
		})
	}
	return sum, nil
}

func summaryFromOrder(o dbgen.Order) Summary {
	sum := Summary{
		ID:             db.UUIDString(o.ID),
		UserID:         db.UUIDString(o.UserID),
		Status:         string(o.Status),
		TotalAmount:    o.TotalAmount,
		DiscountAmount: o.DiscountAmount,
		FinalAmount:    o.FinalAmount,
		CreatedAt:      o.CreatedAt.Time,
	}
	if o.ReviewedBy.Valid {
		id := db.UUIDString(o.ReviewedBy)
		sum.ReviewedBy = &id
	}
	if o.ReviewedAt.Valid {
		at := o.ReviewedAt.Time
		sum.ReviewedAt = &at
	}
	return sum
}
