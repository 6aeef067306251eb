package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	cache      service.RatingCache
	policy     *service.Policy
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	cache service.RatingCache,
	policy *service.Policy,
) *ReviewUseCase {
	if cache == nil {
		cache = service.NoopRatingCache()
	}
	return &ReviewUseCase{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		cache:      cache,
		policy:     policy,
	}
}

type CreateReviewInput struct {
	SellerID string
	Rating   int
	Comment  string
}

type SellerReviews struct {
	Summary entity.RatingSummary `json:"summary"`
	Reviews []*entity.Review     `json:"reviews"`
}

func (uc *ReviewUseCase) CreateReview(ctx context.Context, actor *entity.Actor, input CreateReviewInput) (*entity.Review, error) {
	if !actor.EmailVerified {
		return nil, errors.Unverified()
	}
	if input.SellerID == actor.ID {
		return nil, errors.BadRequest("You cannot review yourself", nil)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.SellerID); err != nil {
		return nil, err
	}

	review := &entity.Review{
		SellerID:     input.SellerID,
		ReviewerID:   actor.ID,
		ReviewerName: actor.Name(),
		Rating:       input.Rating,
		Comment:      strings.TrimSpace(input.Comment),
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.SellerID)
	return review, nil
}

// ListSellerReviews returns a seller's reviews and the average of exactly
// those reviews.
func (uc *ReviewUseCase) ListSellerReviews(ctx context.Context, sellerID string) (*SellerReviews, error) {
	reviews, err := uc.reviewRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	summary := entity.SummarizeRatings(sellerID, reviews)
	newestFirst(reviews)
	return &SellerReviews{Summary: summary, Reviews: reviews}, nil
}

// GetSellerRating serves the summary from the cache and only reads the
// reviews on a miss.
func (uc *ReviewUseCase) GetSellerRating(ctx context.Context, sellerID string) (*entity.RatingSummary, error) {
	cached, err := uc.cache.Get(ctx, sellerID)
	if err != nil {
		logger.Warn("Rating cache read failed for seller %s: %v", sellerID, err)
	}
	if cached != nil {
		return cached, nil
	}

	reviews, err := uc.reviewRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	summary := entity.SummarizeRatings(sellerID, reviews)
	if err := uc.cache.Set(ctx, &summary); err != nil {
		logger.Warn("Rating cache write failed for seller %s: %v", sellerID, err)
	}
	return &summary, nil
}

func (uc *ReviewUseCase) ListReviewsGiven(ctx context.Context, reviewerID string) ([]*entity.Review, error) {
	reviews, err := uc.reviewRepo.ListByReviewer(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	newestFirst(reviews)
	return reviews, nil
}

func (uc *ReviewUseCase) DeleteReview(ctx context.Context, actor *entity.Actor, reviewID string) error {
	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.ReviewerID != actor.ID && !uc.policy.IsAdmin(actor) {
		return errors.PermissionDenied("You can only delete reviews you wrote")
	}

	if err := uc.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	uc.invalidate(ctx, review.SellerID)
	return nil
}

func (uc *ReviewUseCase) invalidate(ctx context.Context, sellerID string) {
	if err := uc.cache.Invalidate(ctx, sellerID); err != nil {
		logger.Warn("Rating cache invalidation failed for seller %s: %v", sellerID, err)
	}
}

func newestFirst(reviews []*entity.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
}
