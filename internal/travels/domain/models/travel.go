package models

import (
	"time"
)

type Travel struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	NumberOfDays int       `json:"number_of_days"` //nolint:tagliatelle
	Public       bool      `json:"is_public"`      //nolint:tagliatelle
	CreatedAt    time.Time `json:"created_at"`     //nolint:tagliatelle
}

// Tour belongs to exactly one Travel. Price is kept in cents so the
// external two-decimal representation is exact.
type Tour struct {
	ID           int64     `json:"id"`
	TravelID     int64     `json:"travel_id"` //nolint:tagliatelle
	Name         string    `json:"name"`
	StartingDate time.Time `json:"starting_date"` //nolint:tagliatelle
	EndingDate   time.Time `json:"ending_date"`   //nolint:tagliatelle
	Price        int64     `json:"price"`
	CreatedAt    time.Time `json:"created_at"` //nolint:tagliatelle
}
