package handler

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/usecase"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

const maxImageSize = 5 * 1024 * 1024

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type createListingRequest struct {
	Title       string   `json:"title" validate:"required,max=120"`
	Description string   `json:"description" validate:"max=2000"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Images      []string `json:"images" validate:"max=6,dive,url"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), actorOf(c), usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Location:    req.Location,
		Images:      req.Images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	filter := repository.ListingFilter{
		SellerID: c.QueryParam("seller_id"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Limit:    queryInt(c, "limit", 50),
	}

	listings, err := h.listingUseCase.ListListings(c.Request().Context(), filter)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) ListSellerListings(c echo.Context) error {
	listings, err := h.listingUseCase.ListBySeller(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listings)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	if err := h.listingUseCase.DeleteListing(c.Request().Context(), actorOf(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

// UploadImages accepts multipart "images" fields and returns their URLs.
func (h *ListingHandler) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid multipart form", err))
	}

	files := form.File["images"]
	if len(files) == 0 {
		return response.Error(c, errors.BadRequest("At least one image is required", nil))
	}

	uploads := make([]usecase.ImageUpload, 0, len(files))
	for _, file := range files {
		if file.Size > maxImageSize {
			return response.Error(c, errors.BadRequest(fmt.Sprintf("%s exceeds the %dMB limit", file.Filename, maxImageSize/(1024*1024)), nil))
		}

		src, err := file.Open()
		if err != nil {
			return response.Error(c, errors.Internal("Unable to read file", err))
		}
		defer src.Close()

		uploads = append(uploads, usecase.ImageUpload{
			Reader:      src,
			ContentType: strings.ToLower(file.Header.Get("Content-Type")),
		})
	}

	urls, err := h.listingUseCase.UploadImages(c.Request().Context(), actorOf(c), uploads)
	if err != nil {
		logger.Error("Image upload failed: %v", err)
		return response.Error(c, err)
	}

	return response.Created(c, map[string][]string{"urls": urls})
}
