package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bnb-backend/models"
)

var (
	ErrListingNotFound = errors.New("listing_not_found")
	ErrNotListingOwner = errors.New("not_listing_owner")
)

// ListingFilter is the browse-page filter; zero values mean "no constraint".
type ListingFilter struct {
	Location     string
	PropertyType string
	ListingType  string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
}

// Matches reports whether a listing satisfies the filter. The DB applies the
// same predicate in SQL; this is the reference form used by ranking tests.
func (f ListingFilter) Matches(l models.Listing) bool {
	if f.Location != "" && l.Location != f.Location {
		return false
	}
	if f.PropertyType != "" && l.PropertyType != f.PropertyType {
		return false
	}
	if f.ListingType != "" && l.ListingType != f.ListingType {
		return false
	}
	if f.MinPrice != nil && l.PricePerNight.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && l.PricePerNight.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

type ListingService struct {
	DB *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{DB: db}
}

func (s *ListingService) applyFilter(q *gorm.DB, f ListingFilter) *gorm.DB {
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	if f.ListingType != "" {
		q = q.Where("listing_type = ?", f.ListingType)
	}
	if f.MinPrice != nil {
		q = q.Where("price_per_night >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_per_night <= ?", *f.MaxPrice)
	}
	return q
}

// FindApproved returns the full approved set matching the filter; ordering is
// irrelevant here because the ranking engine shuffles it.
func (s *ListingService) FindApproved(f ListingFilter) ([]models.Listing, error) {
	var listings []models.Listing
	q := s.applyFilter(s.DB.Where("is_approved = ?", true), f)
	if err := q.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	return listings, nil
}

func (s *ListingService) GetBySlug(slug string) (*models.Listing, error) {
	var listing models.Listing
	if err := s.DB.Where("slug = ?", slug).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve listing: %w", err)
	}
	return &listing, nil
}

func (s *ListingService) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := s.DB.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve listing: %w", err)
	}
	return &listing, nil
}

// Create stores a new submission. Listings always start unapproved and wait
// for moderation.
func (s *ListingService) Create(listing *models.Listing) error {
	listing.Normalize()
	listing.EnsureSlug()
	listing.IsApproved = false

	if err := s.DB.Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Save persists owner edits; derived fields are re-normalized, the slug is
// kept as-is.
func (s *ListingService) Save(listing *models.Listing) error {
	listing.Normalize()
	if err := s.DB.Save(listing).Error; err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

func (s *ListingService) ByOwner(userID uint) ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.DB.Where("submitted_by_id = ?", userID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	return listings, nil
}

// DeleteAsOwner soft-deletes a listing after checking ownership.
func (s *ListingService) DeleteAsOwner(id, userID uint) error {
	listing, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if listing.SubmittedByID == nil || *listing.SubmittedByID != userID {
		return ErrNotListingOwner
	}
	if err := s.DB.Delete(listing).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

// SetApproval is the bulk moderation action; returns how many rows changed.
func (s *ListingService) SetApproval(ids []uint, approved bool) (int64, error) {
	res := s.DB.Model(&models.Listing{}).
		Where("id IN ?", ids).
		Update("is_approved", approved)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update approval: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// SetListingType bulk-moves listings between tiers, keeping the derived
// featured flag and payment amount in step.
func (s *ListingService) SetListingType(ids []uint, listingType string) (int64, error) {
	updates := map[string]interface{}{
		"listing_type":            models.ListingTypeFree,
		"is_featured":             false,
		"featured_payment_amount": decimal.Zero,
	}
	if listingType == models.ListingTypeFeatured {
		updates["listing_type"] = models.ListingTypeFeatured
		updates["is_featured"] = true
		updates["featured_payment_amount"] = models.FeaturedPaymentAmount
	}

	res := s.DB.Model(&models.Listing{}).Where("id IN ?", ids).Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update listing type: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// AllForModeration returns every listing, newest first, for the admin screen.
func (s *ListingService) AllForModeration() ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.DB.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	return listings, nil
}
