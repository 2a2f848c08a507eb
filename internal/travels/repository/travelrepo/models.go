package travelrepo

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("travel not found")
	ErrAlreadyExists = errors.New("travel already exists")
)

const (
	SortByPrice = "price"
	SortAsc     = "asc"
	SortDesc    = "desc"
)

// TourQuery is the validated query spec for one tours listing.
// Pointer filter fields distinguish "absent" from a zero value;
// an absent field leaves that side of the range unbounded.
type TourQuery struct {
	TravelID  int64
	DateFrom  *time.Time
	DateTo    *time.Time
	PriceFrom *int64
	PriceTo   *int64
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

type TravelQuery struct {
	PublicOnly bool
	Page       int
	PerPage    int
}
