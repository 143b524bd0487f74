package wishlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/storefront/internal/catalog"
	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
)

type queryProvider interface {
	AddWishlistItem(ctx context.Context, arg dbgen.AddWishlistItemParams) error
	RemoveWishlistItem(ctx context.Context, arg dbgen.RemoveWishlistItemParams) error
	ListWishlistProducts(ctx context.Context, userID pgtype.UUID) ([]dbgen.Product, error)
	WishlistContains(ctx context.Context, arg dbgen.WishlistContainsParams) (bool, error)
}

type Service struct {
	Q queryProvider
}

func (s *Service) ids(userID, productID string) (pgtype.UUID, pgtype.UUID, error) {
	if s == nil || s.Q == nil {
		return pgtype.UUID{}, pgtype.UUID{}, errors.New("wishlist service not configured")
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return pgtype.UUID{}, pgtype.UUID{}, common.Unauthorized("authentication required")
	}
	pid, err := db.ParseUUID(productID)
	if err != nil {
		return pgtype.UUID{}, pgtype.UUID{}, common.NotFound("product not found", err)
	}
	return uid, pid, nil
}

// Add saves the product. Adding twice is a no-op.
func (s *Service) Add(ctx context.Context, userID, productID string) error {
	uid, pid, err := s.ids(userID, productID)
	if err != nil {
		return err
	}
	if err := s.Q.AddWishlistItem(ctx, dbgen.AddWishlistItemParams{UserID: uid, ProductID: pid}); err != nil {
		if db.IsForeignKeyViolation(err) {
			return common.NotFound("product not found", err)
		}
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, productID string) error {
	uid, pid, err := s.ids(userID, productID)
	if err != nil {
		return err
	}
	if err := s.Q.RemoveWishlistItem(ctx, dbgen.RemoveWishlistItemParams{UserID: uid, ProductID: pid}); err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}

func (s *Service) Contains(ctx context.Context, userID, productID string) (bool, error) {
	uid, pid, err := s.ids(userID, productID)
	if err != nil {
		return false, err
	}
	ok, err := s.Q.WishlistContains(ctx, dbgen.WishlistContainsParams{UserID: uid, ProductID: pid})
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return ok, nil
}

// List returns the saved active products, most recently added first.
func (s *Service) List(ctx context.Context, userID string) ([]catalog.ProductListItem, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("wishlist service not configured")
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return nil, common.Unauthorized("authentication required")
	}
	rows, err := s.Q.ListWishlistProducts(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	out := make([]catalog.ProductListItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, catalog.ToListItem(row))
	}
	return out, nil
}
