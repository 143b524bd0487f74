package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/noah-isme/storefront/internal/common"
	"github.com/noah-isme/storefront/internal/db"
	dbgen "github.com/noah-isme/storefront/internal/db/gen"
)

// ErrAlreadyReviewed is returned when the user has reviewed the product before.
var ErrAlreadyReviewed = errors.New("product already reviewed by this user")

type queryProvider interface {
	GetActiveProduct(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	CreateReview(ctx context.Context, arg dbgen.CreateReviewParams) (dbgen.ProductReview, error)
	ListProductReviews(ctx context.Context, productID pgtype.UUID) ([]dbgen.ListProductReviewsRow, error)
	GetProductReviewStats(ctx context.Context, productID pgtype.UUID) (dbgen.GetProductReviewStatsRow, error)
}

type Service struct {
	Q queryProvider
}

type CreateInput struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"reviewText" validate:"max=2000"`
}

type Review struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	UserID       string    `json:"userId"`
	Rating       int       `json:"rating"`
	ReviewText   string    `json:"reviewText"`
	ReviewerName string    `json:"reviewerName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Stats struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

func (s *Service) Create(ctx context.Context, userID, productID string, in CreateInput) (Review, error) {
	if s == nil || s.Q == nil {
		return Review{}, errors.New("review service not configured")
	}
	uid, err := db.ParseUUID(userID)
	if err != nil {
		return Review{}, common.Unauthorized("authentication required")
	}
	pid, err := s.activeProduct(ctx, productID)
	if err != nil {
		return Review{}, err
	}
	row, err := s.Q.CreateReview(ctx, dbgen.CreateReviewParams{
		ProductID:  pid,
		UserID:     uid,
		Rating:     int32(in.Rating),
		ReviewText: strings.TrimSpace(in.ReviewText),
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Review{}, ErrAlreadyReviewed
		}
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	return Review{
		ID:         db.UUIDString(row.ID),
		ProductID:  db.UUIDString(row.ProductID),
		UserID:     db.UUIDString(row.UserID),
		Rating:     int(row.Rating),
		ReviewText: row.ReviewText,
		CreatedAt:  row.CreatedAt.Time,
	}, nil
}

// List returns the product's reviews, newest first.
func (s *Service) List(ctx context.Context, productID string) ([]Review, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("review service not configured")
	}
	pid, err := db.ParseUUID(productID)
	if err != nil {
		return nil, common.NotFound("product not found", err)
	}
	rows, err := s.Q.ListProductReviews(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := make([]Review, 0, len(rows))
	for _, r := range rows {
		out = append(out, Review{
			ID:           db.UUIDString(r.ID),
			ProductID:    db.UUIDString(r.ProductID),
			UserID:       db.UUIDString(r.UserID),
			Rating:       int(r.Rating),
			ReviewText:   r.ReviewText,
			ReviewerName: r.ReviewerName,
			CreatedAt:    r.CreatedAt.Time,
		})
	}
	return out, nil
}

// Stats returns the review count and the average rating rounded to one decimal.
func (s *Service) Stats(ctx context.Context, productID string) (Stats, error) {
	if s == nil || s.Q == nil {
		return Stats{}, errors.New("review service not configured")
	}
	pid, err := db.ParseUUID(productID)
	if err != nil {
		return Stats{}, common.NotFound("product not found", err)
	}
	row, err := s.Q.GetProductReviewStats(ctx, pid)
	if err != nil {
		return Stats{}, fmt.Errorf("review stats: %w", err)
	}
	return Stats{Count: row.ReviewCount, Average: math.Round(row.AverageRating*10) / 10}, nil
}

func (s *Service) activeProduct(ctx context.Context, productID string) (pgtype.UUID, error) {
	pid, err := db.ParseUUID(productID)
	if err != nil {
		return pgtype.UUID{}, common.NotFound("product not found", err)
	}
	if _, err := s.Q.GetActiveProduct(ctx, pid); err != nil {
		if db.IsNoRows(err) {
			return pgtype.UUID{}, common.NotFound("product not found", err)
		}
		return pgtype.UUID{}, fmt.Errorf("get product: %w", err)
	}
	return pid, nil
}
