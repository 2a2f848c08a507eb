package catalogservice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Leopold1975/travel_catalog/internal/pkg/validate"
	"github.com/Leopold1975/travel_catalog/internal/travels/domain/models"
	repo "github.com/Leopold1975/travel_catalog/internal/travels/repository/travelrepo"
	"github.com/Leopold1975/travel_catalog/pkg/logger"
)

var ErrNotFound = errors.New("travel not found")

const maxSlugAttempts = 10

type CatalogService struct {
	travelRepo  Repository
	travelCache Cache
	lg          logger.Logger

	travelsPerPage int
	toursPerPage   int
}

type Repository interface {
	CreateTravel(context.Context, models.Travel) (int64, error)
	CreateTour(context.Context, models.Tour) (int64, error)
	GetTravelBySlug(context.Context, string) (models.Travel, error)
	ListTravels(context.Context, repo.TravelQuery) ([]models.Travel, int, error)
	ListTours(context.Context, repo.TourQuery) ([]models.Tour, int, error)
	Shutdown(context.Context) error
}

type Cache interface {
	GetTravelBySlug(context.Context, string) (models.Travel, error)
	SetTravel(context.Context, models.Travel) error
}

func New(travelRepo Repository, travelCache Cache, lg logger.Logger, travelsPerPage, toursPerPage int) *CatalogService {
	return &CatalogService{
		travelRepo:     travelRepo,
		travelCache:    travelCache,
		lg:             lg,
		travelsPerPage: travelsPerPage,
		toursPerPage:   toursPerPage,
	}
}

// ListTravels returns one page of publicly listed travels.
func (cs *CatalogService) ListTravels(ctx context.Context, params url.Values) ([]models.Travel, Page, error) {
	q, err := BuildTravelQuery(params, cs.travelsPerPage)
	if err != nil {
		return nil, Page{}, err
	}

	travels, total, err := cs.travelRepo.ListTravels(ctx, q)
	if err != nil {
		return nil, Page{}, fmt.Errorf("list travels error: %w", err)
	}

	return travels, NewPage(total, q.Page, q.PerPage), nil
}

// ListTours runs the listing pipeline for one travel's tours:
// validate parameters, resolve the parent scope, fetch the filtered
// and ordered window, compute its page metadata.
func (cs *CatalogService) ListTours(ctx context.Context, slug string, params url.Values) ([]models.Tour, Page, error) {
	q, err := BuildTourQuery(params, cs.toursPerPage)
	if err != nil {
		return nil, Page{}, err
	}

	travel, err := cs.travelBySlug(ctx, slug)
	if err != nil {
		return nil, Page{}, err
	}

	q.TravelID = travel.ID

	tours, total, err := cs.travelRepo.ListTours(ctx, q)
	if err != nil {
		return nil, Page{}, fmt.Errorf("list tours error: %w", err)
	}

	return tours, NewPage(total, q.Page, q.PerPage), nil
}

func (cs *CatalogService) CreateTravel(ctx context.Context, req CreateTravelRequest) (models.Travel, error) {
	if errs := validate.Struct(req); !errs.Empty() {
		return models.Travel{}, errs.OrNil()
	}

	t := models.Travel{ //nolint:exhaustruct
		Slug:         Slugify(req.Name),
		Name:         req.Name,
		Description:  req.Description,
		NumberOfDays: *req.NumberOfDays,
		Public:       req.Public,
		CreatedAt:    time.Now(),
	}

	id, err := cs.createWithUniqueSlug(ctx, &t)
	if err != nil {
		return models.Travel{}, err
	}

	t.ID = id

	if err := cs.travelCache.SetTravel(ctx, t); err != nil {
		cs.lg.Errorf("set travel cache error: %s", err.Error())
	}

	return t, nil
}

// createWithUniqueSlug retries the insert with a numbered slug when
// the generated one is already taken.
func (cs *CatalogService) createWithUniqueSlug(ctx context.Context, t *models.Travel) (int64, error) {
	base := t.Slug

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		if attempt > 1 {
			t.Slug = base + "-" + strconv.Itoa(attempt)
		}

		id, err := cs.travelRepo.CreateTravel(ctx, *t)
		if errors.Is(err, repo.ErrAlreadyExists) {
			continue
		} else if err != nil {
			return 0, fmt.Errorf("create travel error: %w", err)
		}

		return id, nil
	}

	errs := validate.Errors{}
	errs.Add("name", "The 'name' has already been taken")

	return 0, errs.OrNil()
}

func (cs *CatalogService) CreateTour(ctx context.Context, slug string, req CreateTourRequest) (models.Tour, error) {
	errs := validate.Struct(req)

	start, errStart := time.Parse(dateLayout, req.StartingDate)
	end, errEnd := time.Parse(dateLayout, req.EndingDate)

	if errStart == nil && errEnd == nil && end.Before(start) {
		errs.Add("ending_date", "The 'ending_date' field must be a date after or equal to 'starting_date'")
	}

	if !errs.Empty() {
		return models.Tour{}, errs.OrNil()
	}

	travel, err := cs.travelBySlug(ctx, slug)
	if err != nil {
		return models.Tour{}, err
	}

	t := models.Tour{ //nolint:exhaustruct
		TravelID:     travel.ID,
		Name:         req.Name,
		StartingDate: start,
		EndingDate:   end,
		Price:        int64(math.Round(*req.Price * 100)),
		CreatedAt:    time.Now(),
	}

	id, err := cs.travelRepo.CreateTour(ctx, t)
	if err != nil {
		return models.Tour{}, fmt.Errorf("create tour error: %w", err)
	}

	t.ID = id

	return t, nil
}

func (cs *CatalogService) Shutdown(ctx context.Context) error {
	if err := cs.travelRepo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown travel repo error: %w", err)
	}

	return nil
}

// travelBySlug resolves the listing scope, cache first. Any cache
// failure falls through to the store; only the store decides NotFound.
func (cs *CatalogService) travelBySlug(ctx context.Context, slug string) (models.Travel, error) {
	travel, err := cs.travelCache.GetTravelBySlug(ctx, slug)
	if err == nil {
		cs.lg.Debugf("travel cache hit: %s", slug)

		return travel, nil
	}

	travel, err = cs.travelRepo.GetTravelBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Travel{}, ErrNotFound
		}

		return models.Travel{}, fmt.Errorf("get travel error: %w", err)
	}

	if err := cs.travelCache.SetTravel(ctx, travel); err != nil {
		cs.lg.Errorf("set travel cache error: %s", err.Error())
	}

	return travel, nil
}

// Slugify derives the URL identity from a travel name: lowercase,
// non-alphanumeric runs collapsed into single hyphens.
func Slugify(name string) string {
	var b strings.Builder

	lastHyphen := true // no leading hyphen

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)

			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')

			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
