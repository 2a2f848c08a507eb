package server

import (
	"strconv"

	"github.com/Leopold1975/travel_catalog/internal/travels/domain/models"
	"github.com/Leopold1975/travel_catalog/internal/travels/services/catalogservice"
)

type Meta struct {
	CurrentPage int `json:"current_page"` //nolint:tagliatelle
	LastPage    int `json:"last_page"`    //nolint:tagliatelle
	PerPage     int `json:"per_page"`     //nolint:tagliatelle
	Total       int `json:"total"`
}

type ListResponse struct {
	Data interface{} `json:"data"`
	Meta Meta        `json:"meta"`
}

type SingleResponse struct {
	Data interface{} `json:"data"`
}

type AuthUserResponse struct {
	Token string `json:"token"`
}

type TravelResponse struct {
	ID           int64  `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	NumberOfDays int    `json:"number_of_days"` //nolint:tagliatelle
}

type TourResponse struct {
	ID           int64  `json:"id"`
	TravelID     int64  `json:"travel_id"` //nolint:tagliatelle
	Name         string `json:"name"`
	StartingDate string `json:"starting_date"` //nolint:tagliatelle
	EndingDate   string `json:"ending_date"`   //nolint:tagliatelle
	Price        string `json:"price"`
}

func toMeta(p catalogservice.Page) Meta {
	return Meta{
		CurrentPage: p.CurrentPage,
		LastPage:    p.LastPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
	}
}

func toTravelResponse(t models.Travel) TravelResponse {
	return TravelResponse{
		ID:           t.ID,
		Slug:         t.Slug,
		Name:         t.Name,
		Description:  t.Description,
		NumberOfDays: t.NumberOfDays,
	}
}

func toTravelResponses(travels []models.Travel) []TravelResponse {
	out := make([]TravelResponse, 0, len(travels))
	for _, t := range travels {
		out = append(out, toTravelResponse(t))
	}

	return out
}

func toTourResponse(t models.Tour) TourResponse {
	return TourResponse{
		ID:           t.ID,
		TravelID:     t.TravelID,
		Name:         t.Name,
		StartingDate: t.StartingDate.Format("2006-01-02"),
		EndingDate:   t.EndingDate.Format("2006-01-02"),
		Price:        FormatPrice(t.Price),
	}
}

func toTourResponses(tours []models.Tour) []TourResponse {
	out := make([]TourResponse, 0, len(tours))
	for _, t := range tours {
		out = append(out, toTourResponse(t))
	}

	return out
}

// FormatPrice renders integer cents as a fixed two-decimal string,
// e.g. 10000 -> "100.00".
func FormatPrice(cents int64) string {
	return strconv.FormatInt(cents/100, 10) + "." + twoDigits(cents%100)
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}

	return strconv.FormatInt(n, 10)
}
