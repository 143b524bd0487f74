package checkout_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/checkout"
	"github.com/noah-isme/storefront/internal/common"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/events"
	"github.com/noah-isme/storefront/internal/lock"
	"github.com/noah-isme/storefront/internal/pricing"
)

var productColumns = []string{
	"id", "name", "description", "price", "stock_quantity", "size", "brand",
	"color", "image_url", "is_active", "created_by", "created_at", "updated_at",
}

var orderColumns = []string{
	"id", "user_id", "total_amount", "discount_amount", "final_amount", "status",
	"reviewed_by", "reviewed_at", "created_at", "updated_at",
}

type emitted struct {
	topic   string
	payload any
}

type captureEmitter struct {
	events []emitted
}

func (c *captureEmitter) Emit(_ context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error) {
	c.events = append(c.events, emitted{topic: topic, payload: payload})
	return dbgen.DomainEvent{Topic: topic, AggregateID: aggregateID}, nil
}

type fixture struct {
	svc     *checkout.Service
	mock    pgxmock.PgxPoolIface
	store   cart.RedisStore
	mr      *miniredis.Miniredis
	emitter *captureEmitter
	userID  string
	cartID  string
	product pgtype.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &fixture{
		mock:    mock,
		mr:      mr,
		store:   cart.RedisStore{R: rdb, TTL: time.Hour},
		emitter: &captureEmitter{},
		userID:  uuid.NewString(),
		cartID:  cart.NewCartID(),
		product: pgtype.UUID{Bytes: uuid.New(), Valid: true},
	}
	f.svc = &checkout.Service{
		DB:     mock,
		Carts:  f.store,
		Lock:   lock.Locker{R: rdb},
		Events: f.emitter,
		Logger: zerolog.Nop(),
	}
	return f
}

func (f *fixture) productID() string { return uuid.UUID(f.product.Bytes).String() }

func (f *fixture) putCart(t *testing.T, qty int) {
	t.Helper()
	require.NoError(t, f.store.Save(context.Background(), f.cartID, cart.NewState(map[string]int{f.productID(): qty})))
}

func (f *fixture) expectSnapshot(stock int32) {
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	rows := pgxmock.NewRows(productColumns).AddRow(
		f.product, "Runner", "", decimal.NewFromInt(1000), stock, "42", "Acme",
		"black", "", true, pgtype.UUID{}, now, now,
	)
	f.mock.ExpectQuery("FROM products WHERE id = ANY").WithArgs(pgxmock.AnyArg()).WillReturnRows(rows)
}

func (f *fixture) ctx() context.Context {
	return common.WithEmail(context.Background(), "buyer@example.com")
}

func TestSubmitCreatesOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	f.putCart(t, 2)

	orderID := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}

	f.mock.ExpectBeginTx(pgx.TxOptions{})
	f.expectSnapshot(3)
	f.mock.ExpectExec("INSERT INTO profiles").
		WithArgs(pgxmock.AnyArg(), "buyer@example.com").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectQuery("INSERT INTO orders").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), dbgen.OrderStatusPending).
		WillReturnRows(pgxmock.NewRows(orderColumns).AddRow(
			orderID, pgtype.UUID{Bytes: uuid.MustParse(f.userID), Valid: true},
			decimal.NewFromInt(2000), decimal.NewFromInt(200), decimal.NewFromInt(1800),
			dbgen.OrderStatusPending, pgtype.UUID{}, pgtype.Timestamptz{}, now, now,
		))
	f.mock.ExpectExec("INSERT INTO order_items").
		WithArgs(orderID, f.product, int32(2), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectCommit()

	res, err := f.svc.Submit(f.ctx(), f.userID, f.cartID)
	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())

	require.Equal(t, uuid.UUID(orderID.Bytes).String(), res.OrderID)
	require.Equal(t, "pending", res.Status)
	require.True(t, res.Totals.Subtotal.Equal(decimal.NewFromInt(2000)))
	require.True(t, res.Totals.DiscountAmount.Equal(decimal.NewFromInt(200)))
	require.True(t, res.Totals.FinalAmount.Equal(decimal.NewFromInt(1800)))

	require.False(t, f.mr.Exists("cart:"+f.cartID))
	require.Len(t, f.emitter.events, 1)
	require.Equal(t, events.TopicOrderCreated, f.emitter.events[0].topic)
}

func TestSubmitRejectsQuantityAboveCurrentStock(t *testing.T) {
	f := newFixture(t)
	f.putCart(t, 2)

	f.mock.ExpectBeginTx(pgx.TxOptions{})
	f.expectSnapshot(1)
	f.mock.ExpectRollback()

	_, err := f.svc.Submit(f.ctx(), f.userID, f.cartID)
	var verr *pricing.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, 1, verr.Available)
	require.NoError(t, f.mock.ExpectationsWereMet())

	state, err := f.store.Load(context.Background(), f.cartID)
	require.NoError(t, err)
	require.Equal(t, 2, state.Quantity(f.productID()))
	require.Empty(t, f.emitter.events)
}

func TestSubmitKeepsCartWhenItemInsertFails(t *testing.T) {
	f := newFixture(t)
	f.putCart(t, 1)

	now := pgtype.Timestamptz{Time: time.Now(), Valid: true}
	f.mock.ExpectBeginTx(pgx.TxOptions{})
	f.expectSnapshot(5)
	f.mock.ExpectExec("INSERT INTO profiles").
		WithArgs(pgxmock.AnyArg(), "buyer@example.com").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectQuery("INSERT INTO orders").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), dbgen.OrderStatusPending).
		WillReturnRows(pgxmock.NewRows(orderColumns).AddRow(
			pgtype.UUID{Bytes: uuid.New(), Valid: true}, pgtype.UUID{Bytes: uuid.MustParse(f.userID), Valid: true},
			decimal.NewFromInt(1000), decimal.Zero, decimal.NewFromInt(1000),
			dbgen.OrderStatusPending, pgtype.UUID{}, pgtype.Timestamptz{}, now, now,
		))
	f.mock.ExpectExec("INSERT INTO order_items").
		WithArgs(pgxmock.AnyArg(), f.product, int32(1), pgxmock.AnyArg()).
		WillReturnError(errors.New("foreign key violation"))
	f.mock.ExpectRollback()

	_, err := f.svc.Submit(f.ctx(), f.userID, f.cartID)
	var serr *checkout.SubmissionError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, checkout.StageItems, serr.Stage)
	require.Contains(t, err.Error(), "foreign key violation")
	require.NoError(t, f.mock.ExpectationsWereMet())

	require.True(t, f.mr.Exists("cart:"+f.cartID))
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(f.ctx(), f.userID, f.cartID)
	require.ErrorIs(t, err, checkout.ErrEmptyCart)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitWhileCartLocked(t *testing.T) {
	f := newFixture(t)
	f.putCart(t, 1)
	require.NoError(t, f.mr.Set(lock.CartKey(f.cartID), "other"))

	_, err := f.svc.Submit(f.ctx(), f.userID, f.cartID)
	require.ErrorIs(t, err, lock.ErrBusy)
}

func TestSubmitRequiresUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(f.ctx(), "", f.cartID)
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
}

func TestCheckoutHandler(t *testing.T) {
	f := newFixture(t)
	f.putCart(t, 2)
	f.mock.ExpectBeginTx(pgx.TxOptions{})
	f.expectSnapshot(1)
	f.mock.ExpectRollback()

	h := &checkout.Handler{Svc: f.svc}

	rec := httptest.NewRecorder()
	h.Checkout(rec, httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"cartId":"`+f.cartID+`"}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"cartId":"`+f.cartID+`"}`))
	req = req.WithContext(common.WithUserID(f.ctx(), f.userID))
	rec = httptest.NewRecorder()
	h.Checkout(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_QUANTITY")

	req = httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"cartId":"nope"}`))
	req = req.WithContext(common.WithUserID(f.ctx(), f.userID))
	rec = httptest.NewRecorder()
	h.Checkout(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}
