package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bnb-backend/utils"
)

const (
	ListingTypeFree     = "free"
	ListingTypeFeatured = "featured"
)

// DefaultAdminContact is the prefilled booking contact shown on every listing.
const DefaultAdminContact = "+254707341748"

// FeaturedPaymentAmount is the KES fee for a featured listing.
var FeaturedPaymentAmount = decimal.NewFromInt(1000)

// PropertyTypes maps the stored property type code to its display label.
var PropertyTypes = map[string]string{
	"studio":        "Studio",
	"one_bedroom":   "One Bedroom",
	"two_bedroom":   "Two Bedroom",
	"three_bedroom": "Three Bedroom",
	"Own_compound":  "Own compound",
	"beach_house":   "beach house",
}

// Locations maps the stored location code to its display label. Codes double
// as the slug in location landing-page URLs.
var Locations = map[string]string{
	"westlands":      "Westlands",
	"kilimani":       "Kilimani",
	"kileleshwa":     "Kileleshwa",
	"pangani":        "Pangani",
	"parklands":      "Parklands",
	"ngara":          "Ngara",
	"garden_city":    "Garden City",
	"roysambu":       "Roysambu",
	"roasters":       "Roasters",
	"mirema":         "Mirema",
	"Trm_drive":      "Trm drive",
	"Lumumba_drive":  "Lumumba drive",
	"kitisuru":       "Kitisuru",
	"lavington":      "Lavington",
	"loresho":        "Loresho",
	"zimmerman":      "Zimmerman",
	"kahawa_sukari":  "Kahawa Sukari",
	"kahawa_wendani": "Kahawa Wendani",
	"kasarani":       "Kasarani",
	"bypass":         "Bypass",
	"Membley":        "Membley",
	"ruiru":          "Ruiru",
	"kiambu":         "Kiambu",
	"thome":          "Thome",
	"kiambu_road":    "Kiambu Road",
	"ngong":          "Ngong",
	"rongai":         "Rongai",
	"gwakairu":       "Gwakairu",
	"kimbo":          "Kimbo",
	"k_road":         "K Road",
	"juja":           "Juja",
	"thika":          "Thika",
	"kahawa_west":    "Kahawa West",
	"kitengela":      "Kitengela",
	"watamu":         "Watamu",
	"diani":          "Diani",
	"embakasi":       "Embakasi",
	"fedha":          "Fedha",
	"south_b":        "South B",
	"south_c":        "South C",
	"utawala":        "Utawala",
	"mombasa":        "Mombasa",
	"eldoret":        "Eldoret",
	"nakuru":         "Nakuru",
	"naivasha":       "Naivasha",
	"homeland":       "Homeland",
	"hurlingham":     "Hurlingham",
	"kabete":         "Kabete",
	"kangemi":        "Kangemi",
	"karen":          "Karen",
	"kawangware":     "Kawangware",
	"milimani":       "Milimani",
	"muthaiga":       "Muthaiga",
	"mwiki":          "Mwiki",
	"nairobi_west":   "Nairobi West",
	"ongata_rongai":  "Ongata Rongai",
	"ruai":           "Ruai",
	"ruaka":          "Ruaka",
	"ruaraka":        "Ruaraka",
	"runda":          "Runda",
	"saika":          "Saika",
	"syokimau":       "Syokimau",
	"thogoto":        "Thogoto",
	"upper_hill":     "Upper Hill",
	"uthiru":         "Uthiru",
	"athiriver":      "Athiriver",
	"kisumu":         "Kisumu",
	"machakos":       "Machakos",
	"meru_town":      "Meru Town",
	"nanyuki":        "Nanyuki",
	"nyeri_town":     "Nyeri Town",
	"embu_town":      "Embu Town",
	"narok_town":     "Narok Town",
	"kisii_town":     "Kisii Town",
	"voi":            "Voi",
	"isiolo_town":    "Isiolo Town",
	"bomet":          "Bomet",
	"kakamega_town":  "Kakamega Town",
	"limuru":         "Limuru",
	"malindi":        "Malindi",
	"nyahururu":      "Nyahururu",
	"migori_town":    "Migori Town",
	"kitui_town":     "Kitui Town",
	"bungoma_town":   "Bungoma Town",
	"kilifi_town":    "Kilifi Town",
	"wangige":        "Wangige",
	"kericho_town":   "Kericho Town",
}

type Listing struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title            string `gorm:"size:200" json:"title"`
	Description      string `gorm:"type:text" json:"description"`
	PropertyType     string `gorm:"size:50" json:"property_type"`
	Location         string `gorm:"size:100;index" json:"location"`
	SpecificLocation string `gorm:"size:200" json:"specific_location"`

	HostName     string `gorm:"size:100" json:"host_name"`
	HostPhone    string `gorm:"size:15" json:"host_phone"`
	HostWhatsapp string `gorm:"size:15" json:"host_whatsapp"`
	AdminContact string `gorm:"size:15" json:"admin_contact"`

	ListingType           string          `gorm:"size:20;default:free;index" json:"listing_type"`
	FeaturedPaymentAmount decimal.Decimal `gorm:"type:decimal(10,2)" json:"featured_payment_amount"`

	Guests    uint `json:"guests"`
	Bedrooms  uint `json:"bedrooms"`
	Beds      uint `json:"beds"`
	Bathrooms uint `json:"bathrooms"`

	Wifi    bool `json:"wifi"`
	Parking bool `json:"parking"`
	Kitchen bool `json:"kitchen"`
	Pool    bool `json:"pool"`
	AC      bool `gorm:"column:ac" json:"ac"`
	TV      bool `gorm:"column:tv" json:"tv"`

	PricePerNight decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_per_night"`

	MainImage   string         `gorm:"size:500" json:"main_image"`
	ExtraImages datatypes.JSON `json:"extra_images,omitempty"`

	IsApproved bool `gorm:"default:false;index" json:"is_approved"`
	IsFeatured bool `gorm:"default:false" json:"is_featured"`

	SubmittedByID *uint `gorm:"index" json:"submitted_by_id,omitempty"`
	SubmittedBy   *User `gorm:"foreignKey:SubmittedByID" json:"-"`

	Slug string `gorm:"size:250;uniqueIndex" json:"slug"`
}

// Normalize keeps the derived fields in step with the listing type. Called
// explicitly before every create and save.
func (l *Listing) Normalize() {
	l.IsFeatured = l.ListingType == ListingTypeFeatured
	if l.ListingType == "" {
		l.ListingType = ListingTypeFree
	}
	if l.IsFeatured {
		l.FeaturedPaymentAmount = FeaturedPaymentAmount
	} else {
		l.FeaturedPaymentAmount = decimal.Zero
	}
	if l.AdminContact == "" {
		l.AdminContact = DefaultAdminContact
	}
}

// EnsureSlug assigns a unique slug on first save; existing slugs are kept so
// published URLs never change.
func (l *Listing) EnsureSlug() {
	if l.Slug == "" {
		l.Slug = utils.Slugify(l.Title)
	}
}

func (l *Listing) PropertyTypeDisplay() string {
	if name, ok := PropertyTypes[l.PropertyType]; ok {
		return name
	}
	return l.PropertyType
}

func (l *Listing) LocationDisplay() string {
	if name, ok := Locations[l.Location]; ok {
		return name
	}
	return l.Location
}

func (l *Listing) ListingTypeDisplay() string {
	if l.ListingType == ListingTypeFeatured {
		return "Featured Listing"
	}
	return "Free Listing"
}

// WhatsappLink is the direct chat link to the host.
func (l *Listing) WhatsappLink() string {
	return "https://wa.me/" + strings.ReplaceAll(l.HostWhatsapp, "+", "")
}

func (l *Listing) CallLink() string {
	return "tel:" + l.HostPhone
}

// AdminWhatsappLink opens a chat with the admin contact, prefilled with the
// booking enquiry for this listing.
func (l *Listing) AdminWhatsappLink() string {
	message := fmt.Sprintf("Hello! I'd like to book this bnb:\n"+
		"Property: %s\n"+
		"Location: %s - %s\n"+
		"Host: %s\n"+
		"code: %s\n"+
		"Price: KSh %s/night\n"+
		"Property Type: %s\n"+
		"Listing Type: %s\n\n",
		l.Title,
		l.LocationDisplay(), l.SpecificLocation,
		l.HostName,
		l.HostPhone,
		l.PricePerNight.StringFixed(2),
		l.PropertyTypeDisplay(),
		l.ListingTypeDisplay(),
	)
	contact := strings.ReplaceAll(l.AdminContact, "+", "")
	return "https://wa.me/" + contact + "?text=" + url.QueryEscape(message)
}

func (l *Listing) AdminCallLink() string {
	return "tel:" + l.AdminContact
}
