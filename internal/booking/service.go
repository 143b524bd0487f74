package booking

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
	"github.com/noah-isme/storefront/internal/pricing"
)

const dateLayout = "2006-01-02"

var (
	ErrNotFound       = errors.New("booking not found")
	ErrNotCancellable = errors.New("only pending bookings can be cancelled")
	ErrInvalidDate    = errors.New("pickup date must be a valid date that is not in the past")
)

type queryProvider interface {
	GetActiveProduct(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	CreateBooking(ctx context.Context, arg dbgen.CreateBookingParams) (dbgen.Booking, error)
	GetBooking(ctx context.Context, id pgtype.UUID) (dbgen.Booking, error)
	ListBookingsByUser(ctx context.Context, userID pgtype.UUID) ([]dbgen.ListBookingsByUserRow, error)
	CancelPendingBooking(ctx context.Context, arg dbgen.CancelPendingBookingParams) (dbgen.Booking, error)
}

// Emitter publishes domain events.
type Emitter interface {
	Emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload any) (dbgen.DomainEvent, error)
}

// Service manages in-store pickup bookings.
type Service struct {
	Q           queryProvider
	Events      Emitter
	AutoConfirm bool
	Now         func() time.Time
}

// CreateInput is the booking request body.
type CreateInput struct {
	ProductID  string `json:"productId" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"gte=1"`
	PickupDate string `json:"pickupDate" validate:"required"`
	Notes      string `json:"notes" validate:"max=500"`
}

// Booking is the API representation of a booking.
type Booking struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	Quantity     int             `json:"quantity"`
	PickupDate   string          `json:"pickupDate"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Notes        string          `json:"notes"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	ProductName  string          `json:"productName,omitempty"`
	ProductImage string          `json:"productImageUrl,omitempty"`
	ProductBrand string          `json:"productBrand,omitempty"`
}

func (s *Service) configured() error {
	if s == nil || s.Q == nil {
		return errors.New("booking service not configured")
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ParsePickupDate accepts YYYY-MM-DD dates from today onward.
func ParsePickupDate(raw string, now time.Time) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// Create books quantity units of a product for pickup. The total is price
// times quantity; bookings never get the bulk discount.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Booking, error) {
	if err := s.configured(); err != nil {
		return Booking{}, err
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return Booking{}, common.Unauthorized("authentication required")
	}
	pickup, err := ParsePickupDate(in.PickupDate, s.now())
	if err != nil {
		return Booking{}, err
	}
	pid, err := db.ParseUUID(in.ProductID)
	if err != nil {
		return Booking{}, common.NotFound("product not found", err)
	}
	product, err := s.Q.GetActiveProduct(ctx, pid)
	if err != nil {
		if db.IsNoRows(err) {
			return Booking{}, common.NotFound("product not found", err)
		}
		return Booking{}, fmt.Errorf("get product: %w", err)
	}
	if err := pricing.ValidateQuantity(in.ProductID, in.Quantity, int(product.StockQuantity)); err != nil {
		return Booking{}, err
	}

	status := dbgen.BookingStatusPending
	if s.AutoConfirm {
		status = dbgen.BookingStatusConfirmed
	}
	total := pricing.Subtotal([]pricing.Line{{ProductID: in.ProductID, Quantity: in.Quantity, UnitPrice: product.Price}})
	row, err := s.Q.CreateBooking(ctx, dbgen.CreateBookingParams{
		UserID:      uid,
		ProductID:   pid,
		Quantity:    int32(in.Quantity),
		PickupDate:  pgtype.Date{Time: pickup, Valid: true},
		TotalAmount: total,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      status,
	})
	if err != nil {
		return Booking{}, fmt.Errorf("create booking: %w", err)
	}
	obs.IncBookingCreated(string(row.Status))

	out := fromRow(row)
	out.ProductName = product.Name
	out.ProductImage = product.ImageUrl
	out.ProductBrand = product.Brand
	s.emit(ctx, events.TopicBookingCreated, row, userID)
	return out, nil
}

// ListMine returns the caller's bookings, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]Booking, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return nil, common.Unauthorized("authentication required")
	}
	rows, err := s.Q.ListBookingsByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]Booking, 0, len(rows))
	for _, r := range rows {
		b := fromRow(dbgen.Booking{
			ID:          r.ID,
			UserID:      r.UserID,
			ProductID:   r.ProductID,
			Quantity:    r.Quantity,
			PickupDate:  r.PickupDate,
			TotalAmount: r.TotalAmount,
			Notes:       r.Notes,
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
		})
		b.ProductName = r.ProductName
		b.ProductImage = r.ProductImageUrl
		b.ProductBrand = r.ProductBrand
		out = append(out, b)
	}
	return out, nil
}

// Cancel cancels one of the caller's pending bookings.
func (s *Service) Cancel(ctx context.Context, userID, bookingID string) (Booking, error) {
	if err := s.configured(); err != nil {
		return Booking{}, err
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return Booking{}, common.Unauthorized("authentication required")
	}
	bid, err := db.ParseUUID(bookingID)
	if err != nil {
		return Booking{}, ErrNotFound
	}
	row, err := s.Q.CancelPendingBooking(ctx, dbgen.CancelPendingBookingParams{ID: bid, UserID: uid})
	if err == nil {
		s.emit(ctx, events.TopicBookingCancelled, row, userID)
		return fromRow(row), nil
	}
	if !db.IsNoRows(err) {
		return Booking{}, fmt.Errorf("cancel booking: %w", err)
	}
	existing, getErr := s.Q.GetBooking(ctx, bid)
	if getErr != nil {
		if db.IsNoRows(getErr) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, fmt.Errorf("get booking: %w", getErr)
	}
	if existing.UserID != uid {
		return Booking{}, ErrNotFound
	}
	return Booking{}, ErrNotCancellable
}

func (s *Service) emit(ctx context.Context, topic string, row dbgen.Booking, userID string) {
	if s.Events == nil {
		return
	}
	_, _ = s.Events.Emit(ctx, topic, row.ID, map[string]any{
		"bookingId":   db.UUIDString(row.ID),
		"userId":      userID,
		"productId":   db.UUIDString(row.ProductID),
		"quantity":    row.Quantity,
		"pickupDate":  row.PickupDate.Time.Format(dateLayout),
		"totalAmount": row.TotalAmount,
		"status":      string(row.Status),
	})
}

func fromRow(row dbgen.Booking) Booking {
	b := Booking{
		ID:          db.UUIDString(row.ID),
		ProductID:   db.UUIDString(row.ProductID),
		Quantity:    int(row.Quantity),
		TotalAmount: row.TotalAmount,
		Notes:       row.Notes,
		Status:      string(row.Status),
		CreatedAt:   row.CreatedAt.Time,
	}
	if row.PickupDate.Valid {
		b.PickupDate = row.PickupDate.Time.Format(dateLayout)
	}
	return b
}
