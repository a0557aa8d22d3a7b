package services

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bnb-backend/models"
)

func makeListings(featured, free int) []models.Listing {
	listings := make([]models.Listing, 0, featured+free)
	for i := 0; i < featured; i++ {
		listings = append(listings, models.Listing{
			ID:          uint(i + 1),
			Title:       fmt.Sprintf("Featured %d", i+1),
			ListingType: models.ListingTypeFeatured,
			IsApproved:  true,
		})
	}
	for i := 0; i < free; i++ {
		listings = append(listings, models.Listing{
			ID:          uint(featured + i + 1),
			Title:       fmt.Sprintf("Free %d", i+1),
			ListingType: models.ListingTypeFree,
			IsApproved:  true,
		})
	}
	return listings
}

func collectAllPages(listings []models.Listing, seed int64) []models.Listing {
	first := RankListings(listings, seed, 1)
	all := append([]models.Listing{}, first.Listings...)
	for page := 2; page <= first.TotalPages; page++ {
		all = append(all, RankListings(listings, seed, page).Listings...)
	}
	return all
}

func TestRankListingsFeaturedFirst(t *testing.T) {
	listings := makeListings(5, 20)
	ranked := collectAllPages(listings, 42)
	require.Len(t, ranked, 25)

	// Every featured listing precedes every free listing.
	lastFeatured := -1
	firstFree := len(ranked)
	for i, l := range ranked {
		if l.ListingType == models.ListingTypeFeatured && i > lastFeatured {
			lastFeatured = i
		}
		if l.ListingType == models.ListingTypeFree && i < firstFree {
			firstFree = i
		}
	}
	assert.Equal(t, 4, lastFeatured)
	assert.Equal(t, 5, firstFree)
}

func TestRankListingsDeterministicForSeed(t *testing.T) {
	listings := makeListings(6, 30)

	a := RankListings(listings, 1234, 1)
	b := RankListings(listings, 1234, 1)
	require.Equal(t, len(a.Listings), len(b.Listings))
	for i := range a.Listings {
		assert.Equal(t, a.Listings[i].ID, b.Listings[i].ID)
	}
}

func TestRankListingsDifferentSeedsReorder(t *testing.T) {
	listings := makeListings(0, 40)

	a := collectAllPages(listings, 1)
	b := collectAllPages(listings, 2)
	require.Len(t, b, len(a))

	same := true
	for i := range a {
		if a[i].ID != b[i].ID {
			same = false
			break
		}
	}
	assert.False(t, same, "expected different seeds to produce different orders")
}

func TestRankListingsPagesPartitionSequence(t *testing.T) {
	listings := makeListings(7, 23)

	full := collectAllPages(listings, 99)
	require.Len(t, full, 30)

	// No duplicates, nothing dropped.
	seen := map[uint]bool{}
	for _, l := range full {
		assert.False(t, seen[l.ID], "listing %d appeared twice", l.ID)
		seen[l.ID] = true
	}
	assert.Len(t, seen, 30)

	page := RankListings(listings, 99, 1)
	assert.Equal(t, ListingPageSize, len(page.Listings))
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 30, page.TotalCount)
	assert.Equal(t, 7, page.FeaturedCount)
	assert.Equal(t, 23, page.FreeCount)
}

func TestRankListingsPageClamping(t *testing.T) {
	listings := makeListings(2, 10)

	t.Run("page beyond last clamps to last", func(t *testing.T) {
		page := RankListings(listings, 7, 50)
		assert.Equal(t, 1, page.Page)
		assert.Len(t, page.Listings, 12)
	})

	t.Run("page below one clamps to first", func(t *testing.T) {
		page := RankListings(listings, 7, -3)
		assert.Equal(t, 1, page.Page)
	})

	t.Run("last partial page", func(t *testing.T) {
		page := RankListings(makeListings(0, 15), 7, 2)
		assert.Equal(t, 2, page.Page)
		assert.Len(t, page.Listings, 3)
	})
}

func TestRankListingsEmptySet(t *testing.T) {
	page := RankListings(nil, 5, 1)
	assert.Empty(t, page.Listings)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.TotalCount)
}

func TestRankListingsFilterReference(t *testing.T) {
	min := decimal.NewFromInt(2000)
	f := ListingFilter{Location: "kilimani", MinPrice: &min}

	match := models.Listing{Location: "kilimani", PricePerNight: decimal.NewFromInt(3500)}
	wrongLocation := models.Listing{Location: "karen", PricePerNight: decimal.NewFromInt(3500)}
	tooCheap := models.Listing{Location: "kilimani", PricePerNight: decimal.NewFromInt(1500)}

	assert.True(t, f.Matches(match))
	assert.False(t, f.Matches(wrongLocation))
	assert.False(t, f.Matches(tooCheap))
}

func TestSliderSample(t *testing.T) {
	t.Run("caps at three featured", func(t *testing.T) {
		featured := makeListings(6, 0)
		sample := SliderSample(featured, nil, 11)
		require.Len(t, sample, SliderSize)
		for _, l := range sample {
			assert.Equal(t, models.ListingTypeFeatured, l.ListingType)
		}
	})

	t.Run("falls back to free tier", func(t *testing.T) {
		free := makeListings(0, 5)
		sample := SliderSample(nil, free, 11)
		require.Len(t, sample, SliderSize)
		for _, l := range sample {
			assert.Equal(t, models.ListingTypeFree, l.ListingType)
		}
	})

	t.Run("fewer than three returns all", func(t *testing.T) {
		featured := makeListings(2, 0)
		sample := SliderSample(featured, nil, 11)
		assert.Len(t, sample, 2)
	})

	t.Run("deterministic for seed", func(t *testing.T) {
		featured := makeListings(10, 0)
		a := SliderSample(featured, nil, 77)
		b := SliderSample(featured, nil, 77)
		require.Equal(t, len(a), len(b))
		for i := range a {
			assert.Equal(t, a[i].ID, b[i].ID)
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		featured := makeListings(8, 0)
		before := make([]uint, len(featured))
		for i, l := range featured {
			before[i] = l.ID
		}
		SliderSample(featured, nil, 3)
		for i, l := range featured {
			assert.Equal(t, before[i], l.ID)
		}
	})
}
