package controllers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"bnb-backend/logger"
	"bnb-backend/middleware"
	"bnb-backend/models"
	"bnb-backend/services"
	"bnb-backend/utils"
)

const seedSessionKey = "ranking_seed"

var phoneRe = regexp.MustCompile(`^\+?1?\d{9,15}$`)

type ListingController struct {
	listings *services.ListingService
}

func NewListingController(listings *services.ListingService) *ListingController {
	return &ListingController{listings: listings}
}

// currentSeed reads the session's ranking seed (lazily created) and advances
// the stored value by one so the next full page load reshuffles. The value
// returned is the one this render uses.
func (lc *ListingController) currentSeed(c *gin.Context) int64 {
	session := sessions.Default(c)

	var seed int64
	switch v := session.Get(seedSessionKey).(type) {
	case int64:
		seed = v
	case int:
		seed = int64(v)
	}
	if seed <= 0 {
		seed = rand.Int63n(1000000) + 1
	}

	session.Set(seedSessionKey, seed+1)
	if err := session.Save(); err != nil {
		logger.Warn("failed to save session seed", "error", err)
	}
	return seed
}

func parseFilter(c *gin.Context) services.ListingFilter {
	var f services.ListingFilter

	if loc := c.Query("location"); loc != "" && loc != "all" {
		f.Location = loc
	}
	if pt := c.Query("property_type"); pt != "" {
		f.PropertyType = pt
	}
	if lt := c.Query("listing_type"); lt != "" && lt != "all" {
		f.ListingType = lt
	}
	if raw := c.Query("min_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			f.MinPrice = &v
		}
	}
	if raw := c.Query("max_price"); raw != "" {
		if v, err := decimal.NewFromString(raw); err == nil {
			f.MaxPrice = &v
		}
	}
	return f
}

// List is the home page: filtered approved listings in randomized order,
// featured tier first, plus the featured slider sample.
func (lc *ListingController) List(c *gin.Context) {
	filter := parseFilter(c)

	// Location landing pages reuse this handler with a path param.
	if slug := c.Param("location"); slug != "" {
		if _, ok := models.Locations[slug]; ok {
			filter.Location = slug
		}
	}

	seed := lc.currentSeed(c)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	listings, err := lc.listings.FindApproved(filter)
	if err != nil {
		logger.Error("failed to load listings", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load listings")
		return
	}

	ranked := services.RankListings(listings, seed, page)

	// Slider: same filter but always the featured tier, free tier as
	// fallback, same seed, independent of the page shuffle.
	sliderFilter := filter
	sliderFilter.ListingType = models.ListingTypeFeatured
	featured, err := lc.listings.FindApproved(sliderFilter)
	if err != nil {
		logger.Error("failed to load slider listings", "error", err)
		featured = nil
	}
	var free []models.Listing
	if len(featured) == 0 {
		sliderFilter.ListingType = models.ListingTypeFree
		if free, err = lc.listings.FindApproved(sliderFilter); err != nil {
			logger.Error("failed to load slider fallback listings", "error", err)
			free = nil
		}
	}
	slider := services.SliderSample(featured, free, seed)

	locationName := "All Locations"
	if filter.Location != "" {
		if name, ok := models.Locations[filter.Location]; ok {
			locationName = name
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"listings":          ranked.Listings,
		"page":              ranked.Page,
		"total_pages":       ranked.TotalPages,
		"total_listings":    ranked.TotalCount,
		"featured_count":    ranked.FeaturedCount,
		"free_count":        ranked.FreeCount,
		"featured_listings": slider,
		"location_name":     locationName,
		"current_filters": gin.H{
			"location":      c.DefaultQuery("location", "all"),
			"property_type": c.Query("property_type"),
			"listing_type":  c.DefaultQuery("listing_type", "all"),
			"min_price":     c.Query("min_price"),
			"max_price":     c.Query("max_price"),
		},
	})
}

// Locations returns the filter choices for the location menu.
func (lc *ListingController) Locations(c *gin.Context) {
	codes := make([]string, 0, len(models.Locations))
	for code := range models.Locations {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]gin.H, 0, len(codes))
	for _, code := range codes {
		out = append(out, gin.H{
			"code": code,
			"name": models.Locations[code],
			"slug": code,
			"url":  "/location/" + code + "/",
		})
	}
	c.JSON(http.StatusOK, gin.H{"locations": out})
}

// PropertyTypes returns the filter choices for property and listing types.
func (lc *ListingController) PropertyTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"property_types": models.PropertyTypes,
		"listing_types": gin.H{
			models.ListingTypeFree:     "Free Listing",
			models.ListingTypeFeatured: "Featured Listing",
		},
		"featured_price": models.FeaturedPaymentAmount,
	})
}

func listingWithLinks(l *models.Listing) gin.H {
	return gin.H{
		"listing": l,
		"links": gin.H{
			"whatsapp":       l.WhatsappLink(),
			"call":           l.CallLink(),
			"admin_whatsapp": l.AdminWhatsappLink(),
			"admin_call":     l.AdminCallLink(),
		},
	}
}

// Detail serves a single listing by slug. Unapproved listings are only
// visible to their owner.
func (lc *ListingController) Detail(c *gin.Context) {
	listing, err := lc.listings.GetBySlug(c.Param("slug"))
	if err != nil {
		if err == services.ErrListingNotFound {
			utils.JSONError(c, http.StatusNotFound, "listing not found")
			return
		}
		logger.Error("failed to load listing", "slug", c.Param("slug"), "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load listing")
		return
	}

	if !listing.IsApproved {
		userID := middleware.UserID(c)
		if listing.SubmittedByID == nil || *listing.SubmittedByID != userID {
			utils.JSONError(c, http.StatusNotFound, "listing not found")
			return
		}
	}

	c.JSON(http.StatusOK, listingWithLinks(listing))
}

type listingPayload struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	PropertyType     string   `json:"property_type" binding:"required"`
	Location         string   `json:"location" binding:"required"`
	SpecificLocation string   `json:"specific_location" binding:"required"`
	HostName         string   `json:"host_name" binding:"required"`
	HostPhone        string   `json:"host_phone" binding:"required"`
	HostWhatsapp     string   `json:"host_whatsapp" binding:"required"`
	ListingType      string   `json:"listing_type"`
	Guests           uint     `json:"guests"`
	Bedrooms         uint     `json:"bedrooms"`
	Beds             uint     `json:"beds"`
	Bathrooms        uint     `json:"bathrooms"`
	Wifi             bool     `json:"wifi"`
	Parking          bool     `json:"parking"`
	Kitchen          bool     `json:"kitchen"`
	Pool             bool     `json:"pool"`
	AC               bool     `json:"ac"`
	TV               bool     `json:"tv"`
	PricePerNight    string   `json:"price_per_night" binding:"required"`
	MainImage        string   `json:"main_image" binding:"required"`
	ExtraImages      []string `json:"extra_images"`
}

func (p *listingPayload) validate() (decimal.Decimal, string, string) {
	if p.ListingType != "" && p.ListingType != models.ListingTypeFree && p.ListingType != models.ListingTypeFeatured {
		return decimal.Zero, "listing_type", "listing type must be free or featured"
	}
	if _, ok := models.PropertyTypes[p.PropertyType]; !ok {
		return decimal.Zero, "property_type", "unknown property type"
	}
	if _, ok := models.Locations[p.Location]; !ok {
		return decimal.Zero, "location", "unknown location"
	}
	if !phoneRe.MatchString(p.HostPhone) {
		return decimal.Zero, "host_phone", "phone number must be entered in the format: '+254712345678'"
	}
	if !phoneRe.MatchString(p.HostWhatsapp) {
		return decimal.Zero, "host_whatsapp", "phone number must be entered in the format: '+254712345678'"
	}
	if p.Guests == 0 {
		return decimal.Zero, "guests", "number of guests must be greater than 0"
	}
	if p.Beds == 0 {
		return decimal.Zero, "beds", "number of beds must be greater than 0"
	}

	price, err := decimal.NewFromString(p.PricePerNight)
	if err != nil {
		return decimal.Zero, "price_per_night", "invalid price"
	}
	if !price.IsPositive() {
		return decimal.Zero, "price_per_night", "price per night must be greater than 0"
	}
	return price, "", ""
}

func (p *listingPayload) apply(l *models.Listing, price decimal.Decimal) {
	l.Title = strings.TrimSpace(p.Title)
	l.Description = p.Description
	l.PropertyType = p.PropertyType
	l.Location = p.Location
	l.SpecificLocation = p.SpecificLocation
	l.HostName = p.HostName
	l.HostPhone = p.HostPhone
	l.HostWhatsapp = p.HostWhatsapp
	// An edit that omits the tier keeps the listing where it is; new listings
	// default to free in Normalize.
	if p.ListingType != "" {
		l.ListingType = p.ListingType
	}
	l.Guests = p.Guests
	l.Bedrooms = p.Bedrooms
	l.Beds = p.Beds
	l.Bathrooms = p.Bathrooms
	l.Wifi = p.Wifi
	l.Parking = p.Parking
	l.Kitchen = p.Kitchen
	l.Pool = p.Pool
	l.AC = p.AC
	l.TV = p.TV
	l.PricePerNight = price
	l.MainImage = p.MainImage

	if len(p.ExtraImages) > 0 {
		if raw, err := json.Marshal(p.ExtraImages); err == nil {
			l.ExtraImages = datatypes.JSON(raw)
		}
	}
}

// Submit creates a new listing for the authenticated user. It starts
// unapproved; featured submissions are activated once the payment is
// confirmed by moderation.
func (lc *ListingController) Submit(c *gin.Context) {
	var payload listingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	price, field, msg := payload.validate()
	if field != "" {
		utils.JSONFieldError(c, http.StatusUnprocessableEntity, field, msg)
		return
	}

	userID := middleware.UserID(c)
	listing := &models.Listing{SubmittedByID: &userID}
	payload.apply(listing, price)

	if err := lc.listings.Create(listing); err != nil {
		logger.Error("failed to create listing", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to create listing")
		return
	}

	message := "Your FREE property listing has been submitted successfully! It will be reviewed by our team and approved within 24 hours."
	if listing.IsFeatured {
		message = "Your FEATURED property listing has been submitted successfully! Please pay KES 1,000 to activate your featured listing. Once payment is confirmed, your listing will appear at the TOP of search results and will be approved within 2 hours."
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"listing": listing,
	})
}

// Mine lists the authenticated user's own submissions, approved or not.
func (lc *ListingController) Mine(c *gin.Context) {
	listings, err := lc.listings.ByOwner(middleware.UserID(c))
	if err != nil {
		logger.Error("failed to load user listings", "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load listings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listings)
}

// Update lets the owner edit a listing; edits keep the slug and go through
// the same validation as submission.
func (lc *ListingController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	listing, err := lc.listings.GetByID(uint(id))
	if err != nil {
		if err == services.ErrListingNotFound {
			utils.JSONError(c, http.StatusNotFound, "listing not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load listing")
		return
	}

	userID := middleware.UserID(c)
	if listing.SubmittedByID == nil || *listing.SubmittedByID != userID {
		utils.JSONError(c, http.StatusForbidden, "you can only edit your own listings")
		return
	}

	var payload listingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	price, field, msg := payload.validate()
	if field != "" {
		utils.JSONFieldError(c, http.StatusUnprocessableEntity, field, msg)
		return
	}

	payload.apply(listing, price)
	if err := lc.listings.Save(listing); err != nil {
		logger.Error("failed to update listing", "id", id, "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to update listing")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, listing)
}

// Delete soft-deletes the owner's listing.
func (lc *ListingController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid listing id")
		return
	}

	err = lc.listings.DeleteAsOwner(uint(id), middleware.UserID(c))
	switch {
	case err == nil:
		utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "listing deleted"})
	case err == services.ErrListingNotFound:
		utils.JSONError(c, http.StatusNotFound, "listing not found")
	case err == services.ErrNotListingOwner:
		utils.JSONError(c, http.StatusForbidden, "you can only delete your own listings")
	default:
		logger.Error("failed to delete listing", "id", id, "error", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete listing")
	}
}
