package catalogservice

import (
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/Leopold1975/travel_catalog/internal/pkg/validate"
	"github.com/Leopold1975/travel_catalog/internal/travels/repository/travelrepo"
)

const dateLayout = "2006-01-02"

// BuildTourQuery turns raw listing parameters into a validated query
// spec. Every parameter is optional; every rule runs so the caller
// gets all field errors in one response, never just the first.
func BuildTourQuery(params url.Values, perPage int) (travelrepo.TourQuery, error) {
	errs := validate.Errors{}

	q := travelrepo.TourQuery{ //nolint:exhaustruct
		Page:    1,
		PerPage: perPage,
	}

	if v := params.Get("dateFrom"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			errs.Add("dateFrom", "The 'dateFrom' field must be a valid date")
		} else {
			q.DateFrom = &d
		}
	}

	if v := params.Get("dateTo"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			errs.Add("dateTo", "The 'dateTo' field must be a valid date")
		} else {
			q.DateTo = &d
		}
	}

	if v := params.Get("priceFrom"); v != "" {
		cents, err := PriceToCents(v)
		if err != nil {
			errs.Add("priceFrom", "The 'priceFrom' field must be a non-negative number")
		} else {
			q.PriceFrom = &cents
		}
	}

	if v := params.Get("priceTo"); v != "" {
		cents, err := PriceToCents(v)
		if err != nil {
			errs.Add("priceTo", "The 'priceTo' field must be a non-negative number")
		} else {
			q.PriceTo = &cents
		}
	}

	if v := params.Get("sortBy"); v != "" {
		if v != travelrepo.SortByPrice {
			errs.Add("sortBy", "The 'sortBy' field accepts only 'price' value")
		} else {
			q.SortBy = v
		}
	}

	if v := params.Get("sortOrder"); v != "" {
		if v != travelrepo.SortAsc && v != travelrepo.SortDesc {
			errs.Add("sortOrder", "The 'sortOrder' field accepts only 'asc' or 'desc' value")
		} else {
			q.SortOrder = v
		}
	}

	q.Page = parsePage(params, errs)

	return q, errs.OrNil()
}

// BuildTravelQuery validates the public travels listing parameters.
// The public scope is forced here, not supplied by the client.
func BuildTravelQuery(params url.Values, perPage int) (travelrepo.TravelQuery, error) {
	errs := validate.Errors{}

	q := travelrepo.TravelQuery{
		PublicOnly: true,
		Page:       parsePage(params, errs),
		PerPage:    perPage,
	}

	return q, errs.OrNil()
}

func parsePage(params url.Values, errs validate.Errors) int {
	v := params.Get("page")
	if v == "" {
		return 1
	}

	page, err := strconv.Atoi(v)
	if err != nil || page < 1 {
		errs.Add("page", "The 'page' field must be a positive integer")

		return 1
	}

	return page
}

type ErrPrice struct{ raw string }

func (e ErrPrice) Error() string {
	return "invalid price: " + e.raw
}

// PriceToCents parses a decimal price string into integer cents.
// Negative values are rejected.
func PriceToCents(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, ErrPrice{raw: s}
	}

	return int64(math.Round(f * 100)), nil
}

// Page is the pagination metadata computed for one listing window.
type Page struct {
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int
}

// NewPage derives the window metadata: last page is the ceiling of
// total over page size, never below 1, so an empty result still has a
// well-formed envelope.
func NewPage(total, current, perPage int) Page {
	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = (total + perPage - 1) / perPage
	}

	return Page{
		CurrentPage: current,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
}
