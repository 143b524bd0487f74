package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/common"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/events"
	"github.com/noah-isme/storefront/internal/order"
)

type fakeQueries struct {
	orders         map[pgtype.UUID]dbgen.Order
	items          map[pgtype.UUID][]dbgen.ListOrderItemsRow
	lastListParams dbgen.ListOrdersWithCustomerParams
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{orders: map[pgtype.UUID]dbgen.Order{}, items: map[pgtype.UUID][]dbgen.ListOrderItemsRow{}}
}

func (f *fakeQueries) GetOrder(_ context.Context, id pgtype.UUID) (dbgen.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeQueries) ListOrdersByUser(_ context.Context, arg dbgen.ListOrdersByUserParams) ([]dbgen.Order, error) {
	var out []dbgen.Order
	for _, o := range f.orders {
		if o.UserID == arg.UserID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeQueries) ListOrderItems(_ context.Context, id pgtype.UUID) ([]dbgen.ListOrderItemsRow, error) {
	return f.items[id], nil
}

func (f *fakeQueries) ListOrdersWithCustomer(_ context.Context, arg dbgen.ListOrdersWithCustomerParams) ([]dbgen.ListOrdersWithCustomerRow, error) {
	f.lastListParams = arg
	var out []dbgen.ListOrdersWithCustomerRow
	for _, o := range f.orders {
		if arg.Status.Valid && o.Status != arg.Status.OrderStatus {
			continue
		}
		out = append(out, dbgen.ListOrdersWithCustomerRow{
			ID: o.ID, UserID: o.UserID, Status: o.Status, FinalAmount: o.FinalAmount,
			CustomerName: "Dina", CustomerEmail: "dina@example.com",
		})
	}
	return out, nil
}

func (f *fakeQueries) ReviewPendingOrder(_ context.Context, arg dbgen.ReviewPendingOrderParams) (dbgen.Order, error) {
	o, ok := f.orders[arg.ID]
	if !ok || o.Status != dbgen.OrderStatusPending {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	o.Status = arg.Status
	o.ReviewedBy = arg.ReviewedBy
	o.ReviewedAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
	f.orders[arg.ID] = o
	return o, nil
}

type captureEmitter struct{ topics []string }

func (c *captureEmitter) Emit(_ context.Context, topic string, id pgtype.UUID, _ any) (dbgen.DomainEvent, error) {
	c.topics = append(c.topics, topic)
	return dbgen.DomainEvent{Topic: topic, AggregateID: id}, nil
}

type captureAudit struct{ actions []string }

func (c *captureAudit) Record(_ context.Context, action, _, _ string, _ map[string]any) {
	c.actions = append(c.actions, action)
}

func pgUUID(s string) pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.MustParse(s), Valid: true}
}

func seedOrder(q *fakeQueries, userID string, status dbgen.OrderStatus) string {
	id := uuid.NewString()
	q.orders[pgUUID(id)] = dbgen.Order{
		ID:             pgUUID(id),
		UserID:         pgUUID(userID),
		TotalAmount:    decimal.NewFromInt(2000),
		DiscountAmount: decimal.NewFromInt(200),
		FinalAmount:    decimal.NewFromInt(1800),
		Status:         status,
		CreatedAt:      pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	q.items[pgUUID(id)] = []dbgen.ListOrderItemsRow{{
		OrderID: pgUUID(id), ProductID: pgUUID(uuid.NewString()), Quantity: 2,
		Price: decimal.NewFromInt(1000), ProductName: "Runner",
	}}
	return id
}

func TestGetRestrictsToOwner(t *testing.T) {
	q := newFakeQueries()
	owner, other := uuid.NewString(), uuid.NewString()
	id := seedOrder(q, owner, dbgen.OrderStatusPending)
	svc := &order.Service{Q: q}

	detail, err := svc.Get(context.Background(), id, owner, false)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	require.True(t, detail.Items[0].LineTotal.Equal(decimal.NewFromInt(2000)))
	require.True(t, detail.FinalAmount.Equal(detail.TotalAmount.Sub(detail.DiscountAmount)))

	_, err = svc.Get(context.Background(), id, other, false)
	require.ErrorIs(t, err, order.ErrNotFound)

	_, err = svc.Get(context.Background(), id, other, true)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "bogus", owner, true)
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestReviewOnlyFromPending(t *testing.T) {
	q := newFakeQueries()
	emitter := &captureEmitter{}
	audit := &captureAudit{}
	svc := &order.Service{Q: q, Events: emitter, Audit: audit}
	cashier := uuid.NewString()
	id := seedOrder(q, uuid.NewString(), dbgen.OrderStatusPending)

	sum, err := svc.Review(context.Background(), id, cashier, order.DecisionApprove)
	require.NoError(t, err)
	require.Equal(t, "approved", sum.Status)
	require.Equal(t, cashier, *sum.ReviewedBy)
	require.True(t, sum.FinalAmount.Equal(decimal.NewFromInt(1800)))
	require.Equal(t, []string{events.TopicOrderApproved}, emitter.topics)
	require.Equal(t, []string{"order.approve"}, audit.actions)

	_, err = svc.Review(context.Background(), id, cashier, order.DecisionReject)
	require.ErrorIs(t, err, order.ErrNotPending)

	_, err = svc.Review(context.Background(), uuid.NewString(), cashier, order.DecisionReject)
	require.ErrorIs(t, err, order.ErrNotFound)

	_, err = svc.Review(context.Background(), id, cashier, order.Decision("cancel"))
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
}

func TestParseStatus(t *testing.T) {
	st, err := order.ParseStatus("")
	require.NoError(t, err)
	require.False(t, st.Valid)

	st, err = order.ParseStatus(" Pending ")
	require.NoError(t, err)
	require.Equal(t, dbgen.OrderStatusPending, st.OrderStatus)

	_, err = order.ParseStatus("shipped")
	require.Error(t, err)
}

func withRoute(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func TestStaffHandlers(t *testing.T) {
	q := newFakeQueries()
	svc := &order.Service{Q: q}
	pending := seedOrder(q, uuid.NewString(), dbgen.OrderStatusPending)
	seedOrder(q, uuid.NewString(), dbgen.OrderStatusApproved)
	staffCtx := common.WithRoles(common.WithUserID(context.Background(), uuid.NewString()), []string{common.RoleCashier})

	h := &order.AdminHandler{Svc: svc}
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/staff/orders?status=pending", nil).WithContext(staffCtx))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []order.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, "dina@example.com", resp.Data[0].CustomerEmail)
	require.True(t, q.lastListParams.Status.Valid)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/staff/orders?status=lost", nil).WithContext(staffCtx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Reject(rec, withRoute(httptest.NewRequest(http.MethodPost, "/", nil).WithContext(staffCtx), "id", pending))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"rejected"`)

	rec = httptest.NewRecorder()
	h.Approve(rec, withRoute(httptest.NewRequest(http.MethodPost, "/", nil).WithContext(staffCtx), "id", pending))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCustomerHandlers(t *testing.T) {
	q := newFakeQueries()
	owner := uuid.NewString()
	id := seedOrder(q, owner, dbgen.OrderStatusPending)
	h := &order.Handler{Svc: &order.Service{Q: q}}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	ctx := common.WithUserID(context.Background(), owner)
	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/orders", nil).WithContext(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), id)

	rec = httptest.NewRecorder()
	otherCtx := common.WithUserID(context.Background(), uuid.NewString())
	h.Get(rec, withRoute(httptest.NewRequest(http.MethodGet, "/", nil).WithContext(otherCtx), "id", id))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
