package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bnb-backend/logger"
	"bnb-backend/models"
	"bnb-backend/services"
	"bnb-backend/utils"
)

// AdminController hosts the moderation actions. All routes are behind the
// admin middleware.
type AdminController struct {
	listings *services.ListingService
	bookings *services.BookingService
}

func NewAdminController(listings *services.ListingService, bookings *services.BookingService) *AdminController {
	return &AdminController{listings: listings, bookings: bookings}
}

type idsPayload struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

func (ac *AdminController) bulkApproval(c *gin.Context, approved bool, verb string) {
	var payload idsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	count, err := ac.listings.SetApproval(payload.IDs, approved)
	if err != nil {
		logger.Error("bulk approval update failed", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to update listings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d listing(s) %s.", count, verb),
	})
}

func (ac *AdminController) ApproveListings(c *gin.Context) {
	ac.bulkApproval(c, true, "approved")
}

func (ac *AdminController) UnapproveListings(c *gin.Context) {
	ac.bulkApproval(c, false, "unapproved")
}

func (ac *AdminController) bulkTier(c *gin.Context, listingType, verb string) {
	var payload idsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	count, err := ac.listings.SetListingType(payload.IDs, listingType)
	if err != nil {
		logger.Error("bulk tier update failed", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to update listings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("%d listing(s) %s.", count, verb),
	})
}

func (ac *AdminController) FeatureListings(c *gin.Context) {
	ac.bulkTier(c, models.ListingTypeFeatured, "marked as featured")
}

func (ac *AdminController) UnfeatureListings(c *gin.Context) {
	ac.bulkTier(c, models.ListingTypeFree, "moved to free tier")
}

// Listings returns every listing including unapproved ones.
func (ac *AdminController) Listings(c *gin.Context) {
	listings, err := ac.listings.AllForModeration()
	if err != nil {
		logger.Error("failed to load listings for moderation", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load listings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listings)
}

func (ac *AdminController) Bookings(c *gin.Context) {
	bookings, err := ac.bookings.AllForModeration()
	if err != nil {
		logger.Error("failed to load bookings for moderation", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

type statusPayload struct {
	Status string `json:"status" binding:"required"`
}

// UpdateBookingStatus moves a booking through its lifecycle. Only the status
// changes; the total price stays as it was at creation.
func (ac *AdminController) UpdateBookingStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	if !models.IsValidBookingStatus(payload.Status) {
		utils.JSONFieldError(c, http.StatusUnprocessableEntity, "status",
			"status must be one of: pending, confirmed, cancelled, completed")
		return
	}

	booking, err := ac.bookings.UpdateStatus(uint(id), payload.Status)
	if err != nil {
		if err == services.ErrBookingNotFound {
			utils.JSONError(c, http.StatusNotFound, "booking not found")
			return
		}
		logger.Error("failed to update booking status", "id", id, "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to update booking")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
