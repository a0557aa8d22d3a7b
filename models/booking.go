package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// BookingStatuses lists the valid status values in lifecycle order.
var BookingStatuses = []string{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

func IsValidBookingStatus(status string) bool {
	for _, s := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ListingID uint     `gorm:"index;column:listing_id" json:"listing_id"`
	Listing   *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`

	GuestName       string `gorm:"size:100" json:"guest_name"`
	GuestEmail      string `gorm:"size:254" json:"guest_email"`
	GuestPhone      string `gorm:"size:20" json:"guest_phone"`
	SpecialRequests string `gorm:"type:text" json:"special_requests"`

	// Calendar dates; the stay occupies the half-open interval
	// [check_in, check_out).
	CheckIn  time.Time `gorm:"column:check_in;type:date" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out;type:date" json:"check_out"`

	NumberOfGuests int    `gorm:"default:1" json:"number_of_guests"`
	Status         string `gorm:"size:20;default:pending;index" json:"status"`

	// Set once at creation from the listing's nightly price; never
	// recomputed when the listing price changes later.
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_price"`
}

// NightsBetween counts the whole calendar days from check-in to check-out.
// Both dates are normalized to UTC midnight first, so a stay spanning a DST
// transition in the server's local zone still counts full nights.
func NightsBetween(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}

// Nights returns the length of stay in whole nights.
func (b *Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}

// ReferenceCode is the guest-facing booking reference, e.g. BK000042.
func (b *Booking) ReferenceCode() string {
	return fmt.Sprintf("BK%06d", b.ID)
}
