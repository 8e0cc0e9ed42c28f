package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaceholderImage is served when a product document carries no images.
const PlaceholderImage = "/placeholder.svg"

// Badge labels offered by the admin console. Stored as free text, not validated.
var Badges = []string{
	"Best Seller",
	"New Arrival",
	"Hot Deal",
	"Editor's Choice",
	"Limited Edition",
	"Premium",
}

type Product struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Brand         string             `json:"brand" bson:"brand"`
	Category      string             `json:"category" bson:"category"`
	Badge         string             `json:"badge,omitempty" bson:"badge,omitempty"`
	Price         float64            `json:"price" bson:"price"`
	OriginalPrice float64            `json:"originalPrice,omitempty" bson:"original_price,omitempty"`
	Rating        float64            `json:"rating" bson:"rating"`
	Reviews       int                `json:"reviews" bson:"reviews"`
	Description   string             `json:"description" bson:"description"`
	Specs         []string           `json:"specs" bson:"specs"`
	Images        []string           `json:"images" bson:"images"`
	// Image is the main image, always images[0]. Kept as a stored field so
	// list responses don't have to special-case it.
	Image     string    `json:"image" bson:"image"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"-" bson:"updated_at"`
}

// MainImage returns the display image, falling back to the placeholder when
// the document has no images.
func (p *Product) MainImage() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return PlaceholderImage
}
