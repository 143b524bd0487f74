package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/lock"
	"github.com/noah-isme/storefront/internal/obs"
	"github.com/noah-isme/storefront/internal/pricing"
)

// ErrInvalidCart is returned for malformed cart identifiers.
var ErrInvalidCart = errors.New("invalid cart id")

// ErrUnknownProduct is returned when a product is missing or inactive.
var ErrUnknownProduct = errors.New("unknown product")

// Snapshotter reads current price and stock for products.
type Snapshotter interface {
	Snapshot(ctx context.Context, ids []string) (map[string]catalog.SnapshotItem, error)
}

// Locker serialises mutations of a single cart.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Service encapsulates cart operations. Quantities are validated against the
// catalog stock snapshot before anything is written.
type Service struct {
	Store   Store
	Catalog Snapshotter
	Lock    Locker
	LockTTL time.Duration
}

// LineView is a cart line joined with catalog data.
type LineView struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Available int             `json:"available"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// View is the priced cart.
type View struct {
	CartID string         `json:"cartId"`
	Lines  []LineView     `json:"lines"`
	Totals pricing.Totals `json:"totals"`
}

// PricingLines converts the view into calculator input.
func (v View) PricingLines() []pricing.Line {
	lines := make([]pricing.Line, 0, len(v.Lines))
	for _, l := range v.Lines {
		lines = append(lines, pricing.Line{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return lines
}

// NewCartID issues a fresh cart identifier.
func NewCartID() string { return uuid.NewString() }

// ValidateCartID checks that id is a well-formed cart identifier.
func ValidateCartID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidCart, id)
	}
	return nil
}

func (s *Service) configured() error {
	if s == nil || s.Store == nil || s.Catalog == nil {
		return errors.New("cart service not configured")
	}
	return nil
}

// View loads the cart and prices it. Lines for products that no longer
// exist or are inactive are left out of the view.
func (s *Service) View(ctx context.Context, cartID string) (View, error) {
	if err := s.configured(); err != nil {
		return View{}, err
	}
	if err := ValidateCartID(cartID); err != nil {
		return View{}, err
	}
	state, err := s.Store.Load(ctx, cartID)
	if err != nil {
		return View{}, err
	}
	return s.price(ctx, cartID, state)
}

func (s *Service) price(ctx context.Context, cartID string, state State) (View, error) {
	snap, err := s.Catalog.Snapshot(ctx, state.ProductIDs())
	if err != nil {
		return View{}, err
	}
	return BuildView(cartID, state, snap), nil
}

// BuildView joins state with a snapshot and computes totals.
func BuildView(cartID string, state State, snap map[string]catalog.SnapshotItem) View {
	view := View{CartID: cartID, Lines: make([]LineView, 0, state.Len())}
	for _, id := range state.ProductIDs() {
		item, ok := snap[id]
		if !ok {
			continue
		}
		qty := state.Quantity(id)
		view.Lines = append(view.Lines, LineView{
			ProductID: id,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			UnitPrice: item.Price,
			Quantity:  qty,
			Available: item.Stock,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	view.Totals = pricing.Compute(view.PricingLines())
	return view
}

// canonicalProductID lowercases UUIDs so cart keys match catalog snapshot keys.
func canonicalProductID(id string) string {
	if parsed, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
		return parsed.String()
	}
	return id
}

// Add increments the quantity of productID by n (n >= 1).
func (s *Service) Add(ctx context.Context, cartID, productID string, n int) (View, error) {
	productID = canonicalProductID(productID)
	if n < 1 {
		return View{}, &pricing.ValidationError{ProductID: productID, Requested: n, Reason: pricing.ReasonNonPositive}
	}
	return s.mutate(ctx, cartID, productID, func(st State) State { return st.Add(productID, n) })
}

// Change applies a signed delta. Reaching zero removes the line.
func (s *Service) Change(ctx context.Context, cartID, productID string, delta int) (View, error) {
	productID = canonicalProductID(productID)
	return s.mutate(ctx, cartID, productID, func(st State) State { return st.Add(productID, delta) })
}

// SetQuantity replaces the quantity. Zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, cartID, productID string, qty int) (View, error) {
	productID = canonicalProductID(productID)
	return s.mutate(ctx, cartID, productID, func(st State) State { return st.Set(productID, qty) })
}

// Remove drops a product from the cart.
func (s *Service) Remove(ctx context.Context, cartID, productID string) (View, error) {
	productID = canonicalProductID(productID)
	return s.mutate(ctx, cartID, productID, func(st State) State { return st.Remove(productID) })
}

// SetQuantityClamped bounds qty to [1, stock] before storing it, the way the
// storefront stepper does. An out-of-stock product is removed from the cart.
func (s *Service) SetQuantityClamped(ctx context.Context, cartID, productID string, qty int) (View, error) {
	if err := s.configured(); err != nil {
		return View{}, err
	}
	productID = canonicalProductID(productID)
	snap, err := s.Catalog.Snapshot(ctx, []string{productID})
	if err != nil {
		return View{}, err
	}
	item, ok := snap[productID]
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	return s.SetQuantity(ctx, cartID, productID, pricing.ClampQuantity(qty, item.Stock))
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	if err := s.configured(); err != nil {
		return err
	}
	if err := ValidateCartID(cartID); err != nil {
		return err
	}
	return s.withLock(ctx, cartID, func(ctx context.Context) error {
		return s.Store.Delete(ctx, cartID)
	})
}

// mutate loads the cart, applies change, validates an increased quantity of
// productID against stock and saves. A rejected change leaves the stored cart as it was.
func (s *Service) mutate(ctx context.Context, cartID, productID string, change func(State) State) (View, error) {
	if err := s.configured(); err != nil {
		return View{}, err
	}
	if err := ValidateCartID(cartID); err != nil {
		return View{}, err
	}
	var view View
	err := s.withLock(ctx, cartID, func(ctx context.Context) error {
		current, err := s.Store.Load(ctx, cartID)
		if err != nil {
			return err
		}
		next := change(current)
		snap, err := s.Catalog.Snapshot(ctx, next.ProductIDs())
		if err != nil {
			return err
		}
		// Decreases skip the stock check.
		if qty := next.Quantity(productID); qty > current.Quantity(productID) {
			item, ok := snap[productID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
			}
			if err := pricing.ValidateQuantity(productID, qty, item.Stock); err != nil {
				var verr *pricing.ValidationError
				if errors.As(err, &verr) {
					obs.IncCartRejection(verr.Reason)
				}
				return err
			}
		}
		if err := s.Store.Save(ctx, cartID, next); err != nil {
			return err
		}
		view = BuildView(cartID, next, snap)
		return nil
	})
	return view, err
}

func (s *Service) withLock(ctx context.Context, cartID string, fn func(context.Context) error) error {
	if s.Lock == nil {
		return fn(ctx)
	}
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return s.Lock.WithLock(ctx, lock.CartKey(cartID), ttl, fn)
}
