// model/listing.go
package model

import "time"

type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
)

// Conditions is the fixed set accepted at creation, in display order.
var Conditions = []Condition{ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor}

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingRemoved ListingStatus = "removed"
)

type Listing struct {
	ID            int64         `json:"listing_id"`
	SellerID      int64         `json:"seller_id"`
	BookTitle     string        `json:"book_title"`
	Author        string        `json:"author"`
	PublishYear   int           `json:"publish_year"`
	ProgramName   string        `json:"program_name"`
	ProgramYear   int           `json:"program_year"`
	Price         float64       `json:"price"`
	ConditionType Condition     `json:"condition_type"`
	Comments      *string       `json:"comments"`
	Image1Path    string        `json:"image1_path"`
	Image2Path    *string       `json:"image2_path"`
	Image3Path    *string       `json:"image3_path"`
	Status        ListingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`

	// Seller columns joined from users.
	SellerFirstName string `json:"first_name"`
	SellerLastName  string `json:"last_name"`
	SellerEmail     string `json:"email,omitempty"`
}

// ListingFilter is the predicate input for listing queries. A nil or
// zero-valued field means the clause is omitted entirely; status=active
// is implied and not caller-controlled.
type ListingFilter struct {
	Search        string
	ProgramName   string
	ProgramYear   *int
	ConditionType string
	PriceMin      *float64
	PriceMax      *float64
}

// CreateListingReq carries the multipart form fields of a new listing.
// All values arrive as strings; range/enum parsing happens in the
// listing service, which is the authoritative validator.
// swagger:model CreateListingReq
type CreateListingReq struct {
	BookTitle     string `form:"book_title" json:"book_title" validate:"required"`
	Author        string `form:"author" json:"author" validate:"required"`
	PublishYear   string `form:"publish_year" json:"publish_year" validate:"required"`
	ProgramName   string `form:"program_name" json:"program_name" validate:"required"`
	ProgramYear   string `form:"program_year" json:"program_year" validate:"required"`
	Price         string `form:"price" json:"price" validate:"required"`
	ConditionType string `form:"condition_type" json:"condition_type" validate:"required"`
	Comments      string `form:"comments" json:"comments"`
}
