package usecase

import (
	"context"
	"io"
	"strings"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

const (
	defaultListingLocation = "Thapar Campus"
	defaultListingCategory = "General"
	maxListingImages       = 6
	listingImageFolder     = "listings"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	assets      service.AssetStore
	policy      *service.Policy
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	assets service.AssetStore,
	policy *service.Policy,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		assets:      assets,
		policy:      policy,
	}
}

type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Location    string
	Images      []string
}

type ImageUpload struct {
	Reader      io.Reader
	ContentType string
}

type ListingResponse struct {
	*entity.Listing
	SellerName string `json:"seller_name,omitempty"`
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, actor *entity.Actor, input CreateListingInput) (*entity.Listing, error) {
	if !actor.EmailVerified {
		return nil, errors.Unverified()
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.BadRequest("Title is required", nil)
	}
	if input.Price <= 0 {
		return nil, errors.BadRequest("Price must be greater than zero", nil)
	}
	if len(input.Images) > maxListingImages {
		return nil, errors.BadRequest("Too many images", nil)
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = defaultListingCategory
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		location = defaultListingLocation
	}

	listing := &entity.Listing{
		SellerID:    actor.ID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Category:    category,
		Location:    location,
		Images:      input.Images,
		Status:      entity.ListingAvailable,
	}
	if listing.Images == nil {
		listing.Images = []string{}
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	logger.Info("Listing %s created by %s", listing.ID, actor.ID)
	return listing, nil
}

func (uc *ListingUseCase) GetListing(ctx context.Context, id string) (*ListingResponse, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &ListingResponse{Listing: listing}
	if seller, err := uc.userRepo.GetByID(ctx, listing.SellerID); err == nil {
		resp.SellerName = seller.DisplayName
		if resp.SellerName == "" {
			resp.SellerName = entity.FallbackDisplayName(seller.Email)
		}
	}
	return resp, nil
}

// ListListings returns the feed, newest first. Without a status filter only
// available listings are shown.
func (uc *ListingUseCase) ListListings(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	if filter.Status == "" {
		filter.Status = entity.ListingAvailable
	}
	return uc.listingRepo.List(ctx, filter)
}

func (uc *ListingUseCase) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	return uc.listingRepo.List(ctx, repository.ListingFilter{SellerID: sellerID})
}

// DeleteListing is the owner's plain delete. It leaves deals and chats in
// place; the moderation cascade is the path that cleans those up.
func (uc *ListingUseCase) DeleteListing(ctx context.Context, actor *entity.Actor, id string) error {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != actor.ID && !uc.policy.IsAdmin(actor) {
		return errors.PermissionDenied("You can only delete your own listings")
	}

	if err := uc.listingRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, url := range listing.Images {
		if err := uc.assets.DeleteFile(ctx, url); err != nil {
			logger.Warn("Failed to delete image %s of listing %s: %v", url, id, err)
		}
	}
	return nil
}

// UploadImages pushes files to the asset store and returns their public URLs
// in upload order.
func (uc *ListingUseCase) UploadImages(ctx context.Context, actor *entity.Actor, files []ImageUpload) ([]string, error) {
	if !actor.EmailVerified {
		return nil, errors.Unverified()
	}
	if len(files) == 0 {
		return nil, errors.BadRequest("No files uploaded", nil)
	}
	if len(files) > maxListingImages {
		return nil, errors.BadRequest("Too many images", nil)
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return nil, errors.BadRequest("Only image files are allowed", nil)
		}
		url, err := uc.assets.UploadFile(ctx, f.Reader, f.ContentType, listingImageFolder)
		if err != nil {
			return nil, errors.Internal("Failed to upload image", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
