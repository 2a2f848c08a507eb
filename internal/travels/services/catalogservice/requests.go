package catalogservice

// Numeric fields are pointers so that a present zero survives
// the required check and only the range rules judge it.
type CreateTravelRequest struct {
	Name         string `json:"name"           validate:"required,max=255"`
	Description  string `json:"description"    validate:"required"`
	NumberOfDays *int   `json:"number_of_days" validate:"required,min=1"` //nolint:tagliatelle
	Public       bool   `json:"is_public"`                                //nolint:tagliatelle
}

type CreateTourRequest struct {
	Name         string   `json:"name"          validate:"required,max=255"`
	StartingDate string   `json:"starting_date" validate:"required,datetime=2006-01-02"` //nolint:tagliatelle
	EndingDate   string   `json:"ending_date"   validate:"required,datetime=2006-01-02"` //nolint:tagliatelle
	Price        *float64 `json:"price"         validate:"required,gte=0"`
}
