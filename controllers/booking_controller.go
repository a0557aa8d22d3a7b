package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bnb-backend/logger"
	"bnb-backend/services"
	"bnb-backend/utils"
)

const bookingDateLayout = "2006-01-02"

type BookingController struct {
	bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{bookings: bookings}
}

type bookingPayload struct {
	GuestName       string `json:"guest_name" binding:"required"`
	GuestEmail      string `json:"guest_email" binding:"required,email"`
	GuestPhone      string `json:"guest_phone" binding:"required"`
	CheckIn         string `json:"check_in" binding:"required"`
	CheckOut        string `json:"check_out" binding:"required"`
	NumberOfGuests  int    `json:"number_of_guests" binding:"required,min=1"`
	SpecialRequests string `json:"special_requests"`
}

// Create submits a booking request for a listing. Validation failures come
// back as field errors; a date conflict with an existing booking is a 409.
func (bc *BookingController) Create(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	var payload bookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	if !phoneRe.MatchString(payload.GuestPhone) {
		utils.JSONFieldError(c, http.StatusUnprocessableEntity, "guest_phone",
			"phone number must be entered in the format: '+254712345678'")
		return
	}

	checkIn, err := time.ParseInLocation(bookingDateLayout, payload.CheckIn, time.Local)
	if err != nil {
		utils.JSONFieldError(c, http.StatusUnprocessableEntity, "check_in", "date must be in YYYY-MM-DD format")
		return
	}
	checkOut, err := time.ParseInLocation(bookingDateLayout, payload.CheckOut, time.Local)
	if err != nil {
		utils.JSONFieldError(c, http.StatusUnprocessableEntity, "check_out", "date must be in YYYY-MM-DD format")
		return
	}

	booking, err := bc.bookings.Create(uint(listingID), services.BookingRequest{
		GuestName:       payload.GuestName,
		GuestEmail:      payload.GuestEmail,
		GuestPhone:      payload.GuestPhone,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumberOfGuests:  payload.NumberOfGuests,
		SpecialRequests: payload.SpecialRequests,
	})
	if err != nil {
		switch err {
		case services.ErrListingNotFound:
			utils.JSONError(c, http.StatusNotFound, "listing not found")
		case services.ErrPastCheckIn:
			utils.JSONFieldError(c, http.StatusUnprocessableEntity, "check_in", err.Error())
		case services.ErrInvalidRange:
			utils.JSONFieldError(c, http.StatusUnprocessableEntity, "check_out", err.Error())
		case services.ErrCapacityExceeded:
			utils.JSONFieldError(c, http.StatusUnprocessableEntity, "number_of_guests", err.Error())
		case services.ErrDateConflict:
			utils.JSONError(c, http.StatusConflict, err.Error())
		default:
			logger.Error("failed to create booking", "listing_id", listingID, "error", err)
			utils.JSONError(c, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Booking request submitted successfully! You will receive a confirmation email shortly.",
		"booking":   booking,
		"reference": booking.ReferenceCode(),
		"nights":    booking.Nights(),
	})
}

// Confirmation serves the post-booking summary page data.
func (bc *BookingController) Confirmation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := bc.bookings.GetByID(uint(id))
	if err != nil {
		if err == services.ErrBookingNotFound {
			utils.JSONError(c, http.StatusNotFound, "booking not found")
			return
		}
		logger.Error("failed to load booking", "id", id, "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":   booking,
		"reference": booking.ReferenceCode(),
		"nights":    booking.Nights(),
		"check_in":  booking.CheckIn.Format("January 02, 2006"),
		"check_out": booking.CheckOut.Format("January 02, 2006"),
	})
}
