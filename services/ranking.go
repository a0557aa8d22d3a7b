// Package services holds the application logic between the gin controllers
// and the gorm models.
//
// Ranking: every render of the listing page shuffles the approved result set
// with a session-owned seed, featured tier first. The functions here are
// pure: the seed comes in as an argument and the session layer alone decides
// when to advance it.
package services

import (
	"math/rand"

	"bnb-backend/models"
)

// ListingPageSize is the fixed page size of the public listing page.
const ListingPageSize = 12

// SliderSize caps the number of listings in the featured slider.
const SliderSize = 3

// RankedPage is one page of the ranked listing sequence plus the counts the
// listing page displays.
type RankedPage struct {
	Listings      []models.Listing `json:"listings"`
	Page          int              `json:"page"`
	TotalPages    int              `json:"total_pages"`
	TotalCount    int              `json:"total_count"`
	FeaturedCount int              `json:"featured_count"`
	FreeCount     int              `json:"free_count"`
}

// RankListings orders the filtered listing set for one render: featured and
// free tiers are shuffled independently with the same seed, concatenated
// featured-first, and paginated. Identical seed, identical order.
func RankListings(listings []models.Listing, seed int64, page int) RankedPage {
	featured, free := partitionByTier(listings)

	// Each tier gets a fresh generator seeded with the same value, so the
	// tiers stay independently reproducible.
	shuffleWithSeed(featured, seed)
	shuffleWithSeed(free, seed)

	ranked := make([]models.Listing, 0, len(featured)+len(free))
	ranked = append(ranked, featured...)
	ranked = append(ranked, free...)

	totalPages := (len(ranked) + ListingPageSize - 1) / ListingPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	// Out-of-range pages clamp instead of erroring.
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * ListingPageSize
	end := start + ListingPageSize
	if start > len(ranked) {
		start = len(ranked)
	}
	if end > len(ranked) {
		end = len(ranked)
	}

	return RankedPage{
		Listings:      ranked[start:end],
		Page:          page,
		TotalPages:    totalPages,
		TotalCount:    len(ranked),
		FeaturedCount: len(featured),
		FreeCount:     len(free),
	}
}

// SliderSample draws up to three featured listings for the slider, falling
// back to free listings when no featured listing matches the filter. The
// shuffle reuses the render's seed but never touches the caller's slices.
func SliderSample(featured, free []models.Listing, seed int64) []models.Listing {
	pool := featured
	if len(pool) == 0 {
		pool = free
	}

	sample := make([]models.Listing, len(pool))
	copy(sample, pool)
	shuffleWithSeed(sample, seed)

	if len(sample) > SliderSize {
		sample = sample[:SliderSize]
	}
	return sample
}

func partitionByTier(listings []models.Listing) (featured, free []models.Listing) {
	for _, l := range listings {
		if l.ListingType == models.ListingTypeFeatured {
			featured = append(featured, l)
		} else {
			free = append(free, l)
		}
	}
	return featured, free
}

func shuffleWithSeed(items []models.Listing, seed int64) {
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
