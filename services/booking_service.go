package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bnb-backend/models"
)

// Validation failures surfaced to the submitter as field-level messages.
// Checked in this order, first failure wins.
var (
	ErrPastCheckIn      = errors.New("check-in date cannot be in the past")
	ErrInvalidRange     = errors.New("check-out date must be after check-in date")
	ErrDateConflict     = errors.New("these dates are not available, please select different dates")
	ErrCapacityExceeded = errors.New("number of guests exceeds the property capacity")
)

var ErrBookingNotFound = errors.New("booking_not_found")

// BookingRequest is a booking candidate before validation and pricing.
type BookingRequest struct {
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	CheckIn         time.Time
	CheckOut        time.Time
	NumberOfGuests  int
	SpecialRequests string
}

// DatesOverlap reports whether [aIn, aOut) and [bIn, bOut) share a night.
// Checkout on another stay's check-in day is not an overlap.
func DatesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// ValidateBooking runs the ordered validation chain against the listing and
// its existing bookings. Cancelled and completed bookings never block dates.
func ValidateBooking(req BookingRequest, listing *models.Listing, existing []models.Booking, today time.Time) error {
	if req.CheckIn.Before(today) {
		return ErrPastCheckIn
	}
	if !req.CheckOut.After(req.CheckIn) {
		return ErrInvalidRange
	}
	for _, b := range existing {
		if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
			continue
		}
		if DatesOverlap(req.CheckIn, req.CheckOut, b.CheckIn, b.CheckOut) {
			return ErrDateConflict
		}
	}
	if req.NumberOfGuests > int(listing.Guests) {
		return ErrCapacityExceeded
	}
	return nil
}

// TotalPrice computes nightly rate times whole nights as an exact decimal.
// Nights come from calendar-date arithmetic, not wall-clock duration.
func TotalPrice(nightly decimal.Decimal, checkIn, checkOut time.Time) decimal.Decimal {
	nights := models.NightsBetween(checkIn, checkOut)
	return nightly.Mul(decimal.NewFromInt(int64(nights)))
}

// Today returns the server-local calendar date at midnight.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

type BookingService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

func NewBookingService(db *gorm.DB, notifier *Notifier) *BookingService {
	return &BookingService{DB: db, Notifier: notifier}
}

// Create validates and persists a booking as pending. The listing row is
// locked for the duration of the transaction so two concurrent submissions
// for the same listing cannot both pass the overlap check.
func (s *BookingService) Create(listingID uint, req BookingRequest) (*models.Booking, error) {
	var booking *models.Booking

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("is_approved = ?", true).
			First(&listing, listingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return fmt.Errorf("failed to find listing: %w", err)
		}

		var existing []models.Booking
		if err := tx.
			Where("listing_id = ? AND status IN ?", listingID,
				[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load existing bookings: %w", err)
		}

		if err := ValidateBooking(req, &listing, existing, Today()); err != nil {
			return err
		}

		b := &models.Booking{
			ListingID:       listingID,
			GuestName:       req.GuestName,
			GuestEmail:      req.GuestEmail,
			GuestPhone:      req.GuestPhone,
			SpecialRequests: req.SpecialRequests,
			CheckIn:         req.CheckIn,
			CheckOut:        req.CheckOut,
			NumberOfGuests:  req.NumberOfGuests,
			Status:          models.BookingStatusPending,
			TotalPrice:      TotalPrice(listing.PricePerNight, req.CheckIn, req.CheckOut),
		}
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		b.Listing = &listing
		booking = b
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Fire-and-forget: the booking stands regardless of what happens to
	// the emails.
	if s.Notifier != nil {
		s.Notifier.BookingConfirmation(booking, booking.Listing)
	}

	return booking, nil
}

func (s *BookingService) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Listing").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

// UpdateStatus is the moderator action. Only the status column moves;
// total_price is immutable once the booking exists.
func (s *BookingService) UpdateStatus(id uint, status string) (*models.Booking, error) {
	if !models.IsValidBookingStatus(status) {
		return nil, fmt.Errorf("invalid booking status %q", status)
	}

	booking, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(booking).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	booking.Status = status
	return booking, nil
}

// AllForModeration returns every booking, newest first, with its listing.
func (s *BookingService) AllForModeration() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.DB.Preload("Listing").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	return bookings, nil
}
