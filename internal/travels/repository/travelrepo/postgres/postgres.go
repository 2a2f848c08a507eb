package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/travel_catalog/internal/pkg/config"
	"github.com/Leopold1975/travel_catalog/internal/pkg/pgtools"
	"github.com/Leopold1975/travel_catalog/internal/travels/domain/models"
	repo "github.com/Leopold1975/travel_catalog/internal/travels/repository/travelrepo"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // driver for migrations
)

type TravelsPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (TravelsPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg))
	if err != nil {
		return TravelsPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		return TravelsPostgresRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return TravelsPostgresRepo{
		db: db,
	}, nil
}

func (tr TravelsPostgresRepo) CreateTravel(ctx context.Context, //nolint:nonamedreturns
	travel models.Travel,
) (id int64, err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create travel")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("travels").
		Columns("slug", "name", "description", "number_of_days", "is_public").
		Values(travel.Slug, travel.Name, travel.Description, travel.NumberOfDays, travel.Public).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) && target.Code == "23505" {
			return 0, repo.ErrAlreadyExists
		}

		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (tr TravelsPostgresRepo) CreateTour(ctx context.Context, //nolint:nonamedreturns
	tour models.Tour,
) (id int64, err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create tour")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("tours").
		Columns("travel_id", "name", "starting_date", "ending_date", "price").
		Values(tour.TravelID, tour.Name, tour.StartingDate, tour.EndingDate, tour.Price).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	return id, nil
}

func (tr TravelsPostgresRepo) GetTravelBySlug(ctx context.Context, slug string) (models.Travel, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "slug", "name", "description", "number_of_days", "is_public", "created_at").
		From("travels").
		Where(squirrel.Eq{"slug": slug}).ToSql()
	if err != nil {
		return models.Travel{}, fmt.Errorf("to sql error: %w", err)
	}

	var t models.Travel

	if err := tr.db.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.Slug, &t.Name, &t.Description, &t.NumberOfDays, &t.Public, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Travel{}, repo.ErrNotFound
		}

		return models.Travel{}, fmt.Errorf("scan error: %w", err)
	}

	return t, nil
}

func (tr TravelsPostgresRepo) ListTravels(ctx context.Context, //nolint:nonamedreturns
	q repo.TravelQuery,
) (travels []models.Travel, total int, err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list travels")
	}()

	query, args, err := countTravelsQuery(q).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count scan error: %w", err)
	}

	query, args, err = listTravelsQuery(q).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	travels = make([]models.Travel, 0, q.PerPage)

	for rows.Next() {
		var t models.Travel

		if err = rows.Scan(&t.ID, &t.Slug, &t.Name, &t.Description, &t.NumberOfDays, &t.Public, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan error: %w", err)
		}

		travels = append(travels, t)
	}

	return travels, total, nil
}

func (tr TravelsPostgresRepo) ListTours(ctx context.Context, //nolint:nonamedreturns
	q repo.TourQuery,
) (tours []models.Tour, total int, err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "list tours")
	}()

	query, args, err := countToursQuery(q).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count scan error: %w", err)
	}

	query, args, err = listToursQuery(q).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	tours = make([]models.Tour, 0, q.PerPage)

	for rows.Next() {
		var t models.Tour

		if err = rows.Scan(&t.ID, &t.TravelID, &t.Name, &t.StartingDate, &t.EndingDate, &t.Price, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan error: %w", err)
		}

		tours = append(tours, t)
	}

	return tours, total, nil
}

func (tr TravelsPostgresRepo) Shutdown(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		tr.db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}

// tourFilters translates the query spec's filter fields into the
// store predicates. A record matches a date window when its own range
// overlaps it: dateFrom excludes tours that end before it, dateTo
// excludes tours that start after it. Absent fields add no predicate,
// active ones combine with AND.
func tourFilters(sb squirrel.SelectBuilder, q repo.TourQuery) squirrel.SelectBuilder {
	sb = sb.Where(squirrel.Eq{"travel_id": q.TravelID})

	if q.DateFrom != nil {
		sb = sb.Where(squirrel.GtOrEq{"ending_date": *q.DateFrom})
	}

	if q.DateTo != nil {
		sb = sb.Where(squirrel.LtOrEq{"starting_date": *q.DateTo})
	}

	if q.PriceFrom != nil {
		sb = sb.Where(squirrel.GtOrEq{"price": *q.PriceFrom})
	}

	if q.PriceTo != nil {
		sb = sb.Where(squirrel.LtOrEq{"price": *q.PriceTo})
	}

	return sb
}

// tourOrder resolves the requested ordering. The id tie-break keeps
// the sequence deterministic for equal keys, so pages stay consistent
// between requests.
func tourOrder(q repo.TourQuery) []string {
	if q.SortBy == repo.SortByPrice {
		dir := "ASC"
		if q.SortOrder == repo.SortDesc {
			dir = "DESC"
		}

		return []string{"price " + dir, "id ASC"}
	}

	return []string{"starting_date ASC", "id ASC"}
}

func paginate(sb squirrel.SelectBuilder, page, perPage int) squirrel.SelectBuilder {
	if page < 1 {
		page = 1
	}

	if perPage > 0 {
		sb = sb.Limit(uint64(perPage)).Offset(uint64(page-1) * uint64(perPage))
	}

	return sb
}

func listToursQuery(q repo.TourQuery) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	sb := psql.Select("id", "travel_id", "name", "starting_date", "ending_date", "price", "created_at").
		From("tours")

	sb = tourFilters(sb, q).OrderBy(tourOrder(q)...)

	return paginate(sb, q.Page, q.PerPage)
}

func countToursQuery(q repo.TourQuery) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	return tourFilters(psql.Select("COUNT(*)").From("tours"), q)
}

func travelFilters(sb squirrel.SelectBuilder, q repo.TravelQuery) squirrel.SelectBuilder {
	// The public listing always forces is_public, whatever else the
	// request asked for.
	if q.PublicOnly {
		sb = sb.Where(squirrel.Eq{"is_public": true})
	}

	return sb
}

func listTravelsQuery(q repo.TravelQuery) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	sb := psql.Select("id", "slug", "name", "description", "number_of_days", "is_public", "created_at").
		From("travels")

	sb = travelFilters(sb, q).OrderBy("id ASC")

	return paginate(sb, q.Page, q.PerPage)
}

func countTravelsQuery(q repo.TravelQuery) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	return travelFilters(psql.Select("COUNT(*)").From("travels"), q)
}
