package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bnb-backend/middleware"
	"bnb-backend/models"
	"bnb-backend/services"
	"bnb-backend/utils"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func detailRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lc := NewListingController(services.NewListingService(db))
	r := gin.New()
	r.GET("/listings/:slug", middleware.OptionalAuth(), lc.Detail)
	return r
}

func pendingListingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "slug", "title", "is_approved", "submitted_by_id"}).
		AddRow(5, "pending-cottage-ab12cd34", "Pending Cottage", false, 7)
}

func TestDetailOwnerSeesOwnPendingListing(t *testing.T) {
	db, mock := newMockDB(t)
	r := detailRouter(t, db)

	mock.ExpectQuery("SELECT \\* FROM `listings`").WillReturnRows(pendingListingRows())

	token, err := utils.GenerateToken(7, false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/listings/pending-cottage-ab12cd34", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pending Cottage")
}

func TestDetailPendingListingHiddenFromOthers(t *testing.T) {
	t.Run("anonymous visitor gets 404", func(t *testing.T) {
		db, mock := newMockDB(t)
		r := detailRouter(t, db)

		mock.ExpectQuery("SELECT \\* FROM `listings`").WillReturnRows(pendingListingRows())

		req := httptest.NewRequest(http.MethodGet, "/listings/pending-cottage-ab12cd34", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("other authenticated user gets 404", func(t *testing.T) {
		db, mock := newMockDB(t)
		r := detailRouter(t, db)

		mock.ExpectQuery("SELECT \\* FROM `listings`").WillReturnRows(pendingListingRows())

		token, err := utils.GenerateToken(8, false)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/listings/pending-cottage-ab12cd34", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("garbage token is treated as anonymous", func(t *testing.T) {
		db, mock := newMockDB(t)
		r := detailRouter(t, db)

		mock.ExpectQuery("SELECT \\* FROM `listings`").WillReturnRows(pendingListingRows())

		req := httptest.NewRequest(http.MethodGet, "/listings/pending-cottage-ab12cd34", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListingEditKeepsTierWhenOmitted(t *testing.T) {
	owner := uint(7)
	listing := models.Listing{
		ListingType:   models.ListingTypeFeatured,
		SubmittedByID: &owner,
	}

	payload := listingPayload{
		Title:            "Garden Cottage",
		PropertyType:     "studio",
		Location:         "karen",
		SpecificLocation: "Karen Estate",
		HostName:         "John",
		HostPhone:        "+254712345678",
		HostWhatsapp:     "+254712345678",
		Guests:           2,
		Beds:             1,
		PricePerNight:    "4500",
		MainImage:        "listings/main/cottage.jpg",
	}

	payload.apply(&listing, decimal.NewFromInt(4500))
	listing.Normalize()

	assert.Equal(t, models.ListingTypeFeatured, listing.ListingType)
	assert.True(t, listing.IsFeatured)

	t.Run("explicit tier still applies", func(t *testing.T) {
		payload.ListingType = models.ListingTypeFree
		payload.apply(&listing, decimal.NewFromInt(4500))
		listing.Normalize()
		assert.Equal(t, models.ListingTypeFree, listing.ListingType)
		assert.False(t, listing.IsFeatured)
	})
}
