package usecase

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

const maxDisplayNameLength = 60

// UserUseCase assembles the profile pages.
type UserUseCase struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	reviews     *ReviewUseCase
}

func NewUserUseCase(userRepo repository.UserRepository, listingRepo repository.ListingRepository, reviews *ReviewUseCase) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		listingRepo: listingRepo,
		reviews:     reviews,
	}
}

// PublicUser leaves the email and role out of other people's profiles.
type PublicUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Disabled    bool   `json:"disabled"`
}

type SellerProfile struct {
	User     PublicUser        `json:"user"`
	Listings []*entity.Listing `json:"listings"`
	Reviews  *SellerReviews    `json:"reviews"`
}

type MyProfile struct {
	User           *entity.User      `json:"user"`
	Listings       []*entity.Listing `json:"listings"`
	ReviewsAboutMe *SellerReviews    `json:"reviews_about_me"`
	ReviewsGiven   []*entity.Review  `json:"reviews_given"`
}

func (uc *UserUseCase) GetSellerProfile(ctx context.Context, userID string) (*SellerProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &SellerProfile{
		User: PublicUser{
			ID:          user.ID,
			DisplayName: displayNameOf(user),
			Disabled:    user.Disabled,
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listings, err := uc.listingRepo.List(gctx, repository.ListingFilter{SellerID: userID})
		profile.Listings = visibleListings(listings)
		return err
	})
	g.Go(func() error {
		reviews, err := uc.reviews.ListSellerReviews(gctx, userID)
		profile.Reviews = reviews
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return profile, nil
}

func (uc *UserUseCase) GetMyProfile(ctx context.Context, actor *entity.Actor) (*MyProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	profile := &MyProfile{User: user}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		listings, err := uc.listingRepo.List(gctx, repository.ListingFilter{SellerID: actor.ID})
		profile.Listings = listings
		return err
	})
	g.Go(func() error {
		reviews, err := uc.reviews.ListSellerReviews(gctx, actor.ID)
		profile.ReviewsAboutMe = reviews
		return err
	})
	g.Go(func() error {
		given, err := uc.reviews.ListReviewsGiven(gctx, actor.ID)
		profile.ReviewsGiven = given
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return profile, nil
}

func (uc *UserUseCase) UpdateDisplayName(ctx context.Context, actor *entity.Actor, displayName string) (*entity.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, errors.BadRequest("Display name is required", nil)
	}
	if len(displayName) > maxDisplayNameLength {
		return nil, errors.BadRequest("Display name is too long", nil)
	}

	if err := uc.userRepo.SetDisplayName(ctx, actor.ID, displayName); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, actor.ID)
}

func displayNameOf(user *entity.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return entity.FallbackDisplayName(user.Email)
}

// visibleListings hides what moderation took down from public profiles.
func visibleListings(listings []*entity.Listing) []*entity.Listing {
	out := make([]*entity.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status != entity.ListingRemoved {
			out = append(out, l)
		}
	}
	return out
}
