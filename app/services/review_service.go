package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
)

// ErrAlreadyReviewed is returned when a user reviews the same product
// twice.
var ErrAlreadyReviewed = errors.New("product already reviewed by this user")

// ReviewStore is the slice of the review repository the review service
// needs.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Review, error)
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AverageRating(ctx context.Context, productID primitive.ObjectID) (float64, error)
}

// RatingsRefresher is the single catalogue write the review service
// performs: pushing a recomputed mean rating onto the product.
type RatingsRefresher interface {
	RefreshRatings(ctx context.Context, id primitive.ObjectID, avg float64) error
}

type ReviewService struct {
	reviews  ReviewStore
	products ProductChecker
	ratings  RatingsRefresher
}

func NewReviewService(reviews ReviewStore, products ProductChecker, ratings RatingsRefresher) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, ratings: ratings}
}

// Create stores a review and recomputes the product's mean rating.
func (s *ReviewService) Create(ctx context.Context, userID, productID primitive.ObjectID, rating int, comment string) (models.Review, error) {
	ok, err := s.products.Exists(ctx, productID)
	if err != nil {
		return models.Review{}, err
	}
	if !ok {
		return models.Review{}, repositories.ErrNotFound
	}

	review := models.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Review{}, ErrAlreadyReviewed
		}
		return models.Review{}, err
	}

	if err := s.refresh(ctx, productID); err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (s *ReviewService) ByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	return s.reviews.FindByProduct(ctx, productID)
}

// Delete removes a review. Users may delete their own reviews, admins
// any.
func (s *ReviewService) Delete(ctx context.Context, id, userID primitive.ObjectID, isAdmin bool) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && review.UserID != userID {
		return repositories.ErrNotFound
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx, review.ProductID)
}

func (s *ReviewService) refresh(ctx context.Context, productID primitive.ObjectID) error {
	avg, err := s.reviews.AverageRating(ctx, productID)
	if err != nil {
		return err
	}
	return s.ratings.RefreshRatings(ctx, productID, avg)
}
