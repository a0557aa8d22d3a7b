package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDerivesFeaturedFields(t *testing.T) {
	t.Run("featured listing", func(t *testing.T) {
		l := Listing{ListingType: ListingTypeFeatured}
		l.Normalize()
		assert.True(t, l.IsFeatured)
		assert.True(t, l.FeaturedPaymentAmount.Equal(FeaturedPaymentAmount))
		assert.Equal(t, DefaultAdminContact, l.AdminContact)
	})

	t.Run("free listing", func(t *testing.T) {
		l := Listing{ListingType: ListingTypeFree}
		l.Normalize()
		assert.False(t, l.IsFeatured)
		assert.True(t, l.FeaturedPaymentAmount.IsZero())
	})

	t.Run("empty type defaults to free", func(t *testing.T) {
		l := Listing{}
		l.Normalize()
		assert.Equal(t, ListingTypeFree, l.ListingType)
		assert.False(t, l.IsFeatured)
	})

	t.Run("existing admin contact kept", func(t *testing.T) {
		l := Listing{AdminContact: "+254700000000"}
		l.Normalize()
		assert.Equal(t, "+254700000000", l.AdminContact)
	})
}

func TestEnsureSlug(t *testing.T) {
	l := Listing{Title: "Cozy Studio in Kilimani"}
	l.EnsureSlug()
	assert.Contains(t, l.Slug, "cozy-studio-in-kilimani-")

	first := l.Slug
	l.EnsureSlug()
	assert.Equal(t, first, l.Slug, "slug must not change once set")
}

func TestContactLinks(t *testing.T) {
	l := Listing{
		Title:         "Garden Cottage",
		Location:      "karen",
		HostName:      "John",
		HostPhone:     "+254712345678",
		HostWhatsapp:  "+254712345678",
		AdminContact:  DefaultAdminContact,
		PricePerNight: decimal.NewFromInt(4500),
		PropertyType:  "studio",
		ListingType:   ListingTypeFree,
	}

	assert.Equal(t, "https://wa.me/254712345678", l.WhatsappLink())
	assert.Equal(t, "tel:+254712345678", l.CallLink())
	assert.Equal(t, "tel:"+DefaultAdminContact, l.AdminCallLink())

	adminLink := l.AdminWhatsappLink()
	assert.Contains(t, adminLink, "https://wa.me/254707341748?text=")
	assert.Contains(t, adminLink, "Garden%20Cottage")
	assert.NotContains(t, adminLink, "\n", "message must be url encoded")
}

func TestDisplayHelpers(t *testing.T) {
	l := Listing{PropertyType: "two_bedroom", Location: "westlands", ListingType: ListingTypeFeatured}
	assert.Equal(t, "Two Bedroom", l.PropertyTypeDisplay())
	assert.Equal(t, "Westlands", l.LocationDisplay())
	assert.Equal(t, "Featured Listing", l.ListingTypeDisplay())

	unknown := Listing{PropertyType: "castle", Location: "atlantis"}
	assert.Equal(t, "castle", unknown.PropertyTypeDisplay())
	assert.Equal(t, "atlantis", unknown.LocationDisplay())
}
