package booking_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/booking"
	"github.com/noah-isme/storefront/internal/common"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/events"
	"github.com/noah-isme/storefront/internal/pricing"
)

type fakeQueries struct {
	products map[pgtype.UUID]dbgen.Product
	bookings map[pgtype.UUID]dbgen.Booking
}

func (f *fakeQueries) GetActiveProduct(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return dbgen.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeQueries) CreateBooking(_ context.Context, arg dbgen.CreateBookingParams) (dbgen.Booking, error) {
	b := dbgen.Booking{
		ID:          pgtype.UUID{Bytes: uuid.New(), Valid: true},
		UserID:      arg.UserID,
		ProductID:   arg.ProductID,
		Quantity:    arg.Quantity,
		PickupDate:  arg.PickupDate,
		TotalAmount: arg.TotalAmount,
		Notes:       arg.Notes,
		Status:      arg.Status,
		CreatedAt:   pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeQueries) GetBooking(_ context.Context, id pgtype.UUID) (dbgen.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return dbgen.Booking{}, pgx.ErrNoRows
	}
	return b, nil
}

func (f *fakeQueries) ListBookingsByUser(_ context.Context, userID pgtype.UUID) ([]dbgen.ListBookingsByUserRow, error) {
	var out []dbgen.ListBookingsByUserRow
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		p := f.products[b.ProductID]
		out = append(out, dbgen.ListBookingsByUserRow{
			ID: b.ID, UserID: b.UserID, ProductID: b.ProductID, Quantity: b.Quantity,
			PickupDate: b.PickupDate, TotalAmount: b.TotalAmount, Status: b.Status,
			ProductName: p.Name, ProductBrand: p.Brand,
		})
	}
	return out, nil
}

func (f *fakeQueries) CancelPendingBooking(_ context.Context, arg dbgen.CancelPendingBookingParams) (dbgen.Booking, error) {
	b, ok := f.bookings[arg.ID]
	if !ok || b.UserID != arg.UserID || b.Status != dbgen.BookingStatusPending {
		return dbgen.Booking{}, pgx.ErrNoRows
	}
	b.Status = dbgen.BookingStatusCancelled
	f.bookings[arg.ID] = b
	return b, nil
}

type captureEmitter struct{ topics []string }

func (c *captureEmitter) Emit(_ context.Context, topic string, id pgtype.UUID, _ any) (dbgen.DomainEvent, error) {
	c.topics = append(c.topics, topic)
	return dbgen.DomainEvent{Topic: topic, AggregateID: id}, nil
}

var fixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func setup(autoConfirm bool) (*booking.Service, *fakeQueries, *captureEmitter, string) {
	pid := uuid.New()
	q := &fakeQueries{
		products: map[pgtype.UUID]dbgen.Product{
			{Bytes: pid, Valid: true}: {ID: pgtype.UUID{Bytes: pid, Valid: true}, Name: "Runner", Brand: "Acme", Price: decimal.NewFromInt(1000), StockQuantity: 3},
		},
		bookings: map[pgtype.UUID]dbgen.Booking{},
	}
	em := &captureEmitter{}
	svc := &booking.Service{Q: q, Events: em, AutoConfirm: autoConfirm, Now: func() time.Time { return fixedNow }}
	return svc, q, em, pid.String()
}

func TestCreateBookingTotalsWithoutDiscount(t *testing.T) {
	svc, _, em, pid := setup(true)
	user := uuid.NewString()

	b, err := svc.Create(context.Background(), user, booking.CreateInput{ProductID: pid, Quantity: 2, PickupDate: "2025-03-10", Notes: " after 5pm "})
	require.NoError(t, err)
	require.True(t, b.TotalAmount.Equal(decimal.NewFromInt(2000)))
	require.Equal(t, "confirmed", b.Status)
	require.Equal(t, "2025-03-10", b.PickupDate)
	require.Equal(t, "after 5pm", b.Notes)
	require.Equal(t, []string{events.TopicBookingCreated}, em.topics)

	list, err := svc.ListMine(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Runner", list[0].ProductName)
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _, _, pid := setup(false)
	user := uuid.NewString()

	_, err := svc.Create(context.Background(), user, booking.CreateInput{ProductID: pid, Quantity: 1, PickupDate: "2025-03-09"})
	require.ErrorIs(t, err, booking.ErrInvalidDate)

	_, err = svc.Create(context.Background(), user, booking.CreateInput{ProductID: pid, Quantity: 1, PickupDate: "10/03/2025"})
	require.ErrorIs(t, err, booking.ErrInvalidDate)

	_, err = svc.Create(context.Background(), user, booking.CreateInput{ProductID: pid, Quantity: 4, PickupDate: "2025-03-11"})
	var verr *pricing.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, 3, verr.Available)

	_, err = svc.Create(context.Background(), user, booking.CreateInput{ProductID: uuid.NewString(), Quantity: 1, PickupDate: "2025-03-11"})
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestCancelOnlyOwnPending(t *testing.T) {
	svc, _, em, pid := setup(false)
	owner := uuid.NewString()

	b, err := svc.Create(context.Background(), owner, booking.CreateInput{ProductID: pid, Quantity: 1, PickupDate: "2025-03-12"})
	require.NoError(t, err)
	require.Equal(t, "pending", b.Status)

	_, err = svc.Cancel(context.Background(), uuid.NewString(), b.ID)
	require.ErrorIs(t, err, booking.ErrNotFound)

	cancelled, err := svc.Cancel(context.Background(), owner, b.ID)
	require.NoError(t, err)
	require.Equal(t, "cancelled", cancelled.Status)
	require.Equal(t, []string{events.TopicBookingCreated, events.TopicBookingCancelled}, em.topics)

	_, err = svc.Cancel(context.Background(), owner, b.ID)
	require.ErrorIs(t, err, booking.ErrNotCancellable)
}

func TestConfirmedBookingCannotBeCancelled(t *testing.T) {
	svc, _, _, pid := setup(true)
	owner := uuid.NewString()
	b, err := svc.Create(context.Background(), owner, booking.CreateInput{ProductID: pid, Quantity: 1, PickupDate: "2025-03-12"})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), owner, b.ID)
	require.ErrorIs(t, err, booking.ErrNotCancellable)
}

func TestBookingHandlers(t *testing.T) {
	svc, _, _, pid := setup(false)
	h := &booking.Handler{Svc: svc}
	ctx := common.WithUserID(context.Background(), uuid.NewString())

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"productId":"`+pid+`","quantity":1,"pickupDate":"2025-03-11"}`)).WithContext(ctx))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"productId":"`+pid+`","quantity":1,"pickupDate":"yesterday"}`)).WithContext(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_PICKUP_DATE")

	rec = httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"productId":"`+pid+`","quantity":0,"pickupDate":"2025-03-11"}`)).WithContext(ctx))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil).WithContext(ctx)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", uuid.NewString())
	h.Cancel(rec, req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc)))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
