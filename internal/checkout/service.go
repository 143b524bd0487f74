package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront/internal/cart"
	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
	"github.com/noah-isme/storefront/internal/events"
	"github.com/noah-isme/storefront/internal/lock"
	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/pricing"
)

// ErrEmptyCart is returned when a cart with no lines is submitted.
var ErrEmptyCart = errors.New("cart is empty")

// Stage names the persistence step that failed during submission.
type Stage string

const (
	StageLoadCart Stage = "load_cart"
	StageBegin    Stage = "begin"
	StageSnapshot Stage = "snapshot"
	StageProfile  Stage = "profile"
	StageOrder    Stage = "order"
	StageItems    Stage = "order_items"
	StageCommit   Stage = "commit"
)

// SubmissionError wraps a failed external call. The cart is left as it was.
type SubmissionError struct {
	Stage Stage
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("checkout %s: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// TxBeginner starts database transactions. Satisfied by *pgxpool.Pool.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Locker guards a cart against concurrent submission and mutation.
type Locker interface {
	TryWithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Emitter publishes domain events after commit.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error)
}

// Service turns a cart into a pending order.
type Service struct {
	DB      TxBeginner
	Carts   cart.Store
	Lock    Locker
	Events  Emitter
	LockTTL time.Duration
	Logger  zerolog.Logger
}

// Result describes a created order.
type Result struct {
	OrderID string          `json:"orderId"`
	Status  string          `json:"status"`
	Lines   []cart.LineView `json:"lines"`
	Totals  pricing.Totals  `json:"totals"`
}

// Submit prices the cart against current stock and writes the order with its
// items in one transaction. The cart is cleared only after commit.
func (s *Service) Submit(ctx context.Context, userID, cartID string) (Result, error) {
	if s == nil || s.DB == nil || s.Carts == nil {
		return Result{}, errors.New("checkout service not configured")
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return Result{}, common.Unauthorized("authentication required")
	}
	if err := cart.ValidateCartID(cartID); err != nil {
		return Result{}, err
	}

	var res Result
	err = s.withLock(ctx, cartID, func(ctx context.Context) error {
		state, err := s.Carts.Load(ctx, cartID)
		if err != nil {
			return &SubmissionError{Stage: StageLoadCart, Err: err}
		}
		if state.Len() == 0 {
			return ErrEmptyCart
		}
		res, err = s.persist(ctx, uid, cartID, state)
		if err != nil {
			return err
		}
		if err := s.Carts.Delete(ctx, cartID); err != nil {
			s.Logger.Warn().Err(err).Str("cart_id", cartID).Str("order_id", res.OrderID).Msg("checkout: clear cart after commit")
		}
		return nil
	})
	if err != nil {
		obs.IncCheckout(outcome(err))
		return Result{}, err
	}

	obs.IncCheckout("success")
	obs.ObserveOrder(res.Totals.FinalAmount.InexactFloat64(), res.Totals.DiscountAmount.IsPositive())
	s.emit(ctx, userID, res)
	return res, nil
}

func (s *Service) persist(ctx context.Context, uid pgtype.UUID, cartID string, state cart.State) (Result, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Result{}, &SubmissionError{Stage: StageBegin, Err: err}
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := dbgen.New(tx)

	snap, err := catalog.LoadSnapshot(ctx, qtx, state.ProductIDs())
	if err != nil {
		return Result{}, &SubmissionError{Stage: StageSnapshot, Err: err}
	}
	for _, id := range state.ProductIDs() {
		// A product that disappeared has no stock left.
		if err := pricing.ValidateQuantity(id, state.Quantity(id), snap[id].Stock); err != nil {
			return Result{}, err
		}
	}
	view := cart.BuildView(cartID, state, snap)

	if err := qtx.EnsureProfile(ctx, dbgen.EnsureProfileParams{ID: uid, Email: common.Email(ctx)}); err != nil {
		return Result{}, &SubmissionError{Stage: StageProfile, Err: err}
	}
	order, err := qtx.CreateOrder(ctx, dbgen.CreateOrderParams{
		UserID:         uid,
		TotalAmount:    view.Totals.Subtotal,
		DiscountAmount: view.Totals.DiscountAmount,
		FinalAmount:    view.Totals.FinalAmount,
		Status:         dbgen.OrderStatusPending,
	})
	if err != nil {
		return Result{}, &SubmissionError{Stage: StageOrder, Err: err}
	}
	for _, line := range view.Lines {
		pid, err := db.ParseUUID(line.ProductID)
		if err != nil {
			return Result{}, &SubmissionError{Stage: StageItems, Err: err}
		}
		if err := qtx.CreateOrderItem(ctx, dbgen.CreateOrderItemParams{
			OrderID:   order.ID,
			ProductID: pid,
			Quantity:  int32(line.Quantity),
			Price:     line.UnitPrice,
		}); err != nil {
			return Result{}, &SubmissionError{Stage: StageItems, Err: err}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Result{}, &SubmissionError{Stage: StageCommit, Err: err}
	}

	return Result{
		OrderID: db.UUIDString(order.ID),
		Status:  string(order.Status),
		Lines:   view.Lines,
		Totals:  view.Totals,
	}, nil
}

func (s *Service) emit(ctx context.Context, userID string, res Result) {
	if s.Events == nil {
		return
	}
	oid, err := db.ParseUUID(res.OrderID)
	if err != nil {
		return
	}
	payload := map[string]any{
		"orderId":        res.OrderID,
		"userId":         userID,
		"subtotal":       res.Totals.Subtotal,
		"discountAmount": res.Totals.DiscountAmount,
		"finalAmount":    res.Totals.FinalAmount,
		"totalQuantity":  res.Totals.Quantity,
	}
	if email := common.Email(ctx); email != "" {
		payload["email"] = email
	}
	if _, err := s.Events.Emit(ctx, events.TopicOrderCreated, oid, payload); err != nil {
		s.Logger.Warn().Err(err).Str("order_id", res.OrderID).Msg("checkout: emit order.created")
	}
}

func (s *Service) withLock(ctx context.Context, cartID string, fn func(context.Context) error) error {
	if s.Lock == nil {
		return fn(ctx)
	}
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return s.Lock.TryWithLock(ctx, lock.CartKey(cartID), ttl, fn)
}

func outcome(err error) string {
	var (
		verr *pricing.ValidationError
		serr *SubmissionError
	)
	switch {
	case errors.As(err, &verr):
		return "invalid_quantity"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, lock.ErrBusy):
		return "busy"
	case errors.As(err, &serr):
		return "submission_failed"
	default:
		return "rejected"
	}
}
