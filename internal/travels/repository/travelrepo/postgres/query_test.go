package postgres

import (
	"testing"
	"time"

	repo "github.com/Leopold1975/travel_catalog/internal/travels/repository/travelrepo"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	return &t
}

func cents(v int64) *int64 { return &v }

func TestListToursQueryNoFilters(t *testing.T) {
	q := repo.TourQuery{ //nolint:exhaustruct
		TravelID: 7,
		Page:     1,
		PerPage:  15,
	}

	sql, args, err := listToursQuery(q).ToSql()
	require.NoError(t, err)
	require.Equal(t,
		"SELECT id, travel_id, name, starting_date, ending_date, price, created_at "+
			"FROM tours WHERE travel_id = $1 "+
			"ORDER BY starting_date ASC, id ASC LIMIT 15 OFFSET 0",
		sql)
	require.Equal(t, []interface{}{int64(7)}, args)
}

func TestListToursQueryDateWindow(t *testing.T) {
	from := date(2024, 6, 1)
	to := date(2024, 6, 30)

	q := repo.TourQuery{ //nolint:exhaustruct
		TravelID: 7,
		DateFrom: from,
		DateTo:   to,
		Page:     1,
		PerPage:  15,
	}

	sql, args, err := listToursQuery(q).ToSql()
	require.NoError(t, err)

	// dateFrom keeps tours still running on that day, dateTo keeps
	// tours already started by then.
	require.Contains(t, sql, "ending_date >= $2")
	require.Contains(t, sql, "starting_date <= $3")
	require.Equal(t, []interface{}{int64(7), *from, *to}, args)
}

func TestListToursQueryPriceRange(t *testing.T) {
	q := repo.TourQuery{ //nolint:exhaustruct
		TravelID:  7,
		PriceFrom: cents(9999),
		PriceTo:   cents(50000),
		Page:      1,
		PerPage:   15,
	}

	sql, args, err := listToursQuery(q).ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "price >= $2")
	require.Contains(t, sql, "price <= $3")
	require.Equal(t, []interface{}{int64(7), int64(9999), int64(50000)}, args)
}

func TestListToursQuerySingleSidedPrice(t *testing.T) {
	q := repo.TourQuery{ //nolint:exhaustruct
		TravelID: 7,
		PriceTo:  cents(50000),
		Page:     1,
		PerPage:  15,
	}

	sql, args, err := listToursQuery(q).ToSql()
	require.NoError(t, err)
	require.NotContains(t, sql, "price >=")
	require.Contains(t, sql, "price <= $2")
	require.Equal(t, []interface{}{int64(7), int64(50000)}, args)
}

func TestListToursQueryPriceSortWithTieBreak(t *testing.T) {
	q := repo.TourQuery{ //nolint:exhaustruct
		TravelID: 7,
		SortBy:   repo.SortByPrice,
		Page:     1,
		PerPage:  15,
	}

	sql, _, err := listToursQuery(q).ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "ORDER BY price ASC, id ASC")

	q.SortOrder = repo.SortDesc

	sql, _, err = listToursQuery(q).ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "ORDER BY price DESC, id ASC")
}

func TestListToursQueryOffsetFollowsPage(t *testing.T) {
	q := repo.TourQuery{ //nolint:exhaustruct
		TravelID: 7,
		Page:     3,
		PerPage:  15,
	}

	sql, _, err := listToursQuery(q).ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "LIMIT 15 OFFSET 30")
}

func TestCountToursQueryHasNoWindow(t *testing.T) {
	q := repo.TourQuery{ //nolint:exhaustruct
		TravelID:  7,
		PriceFrom: cents(100),
		Page:      5,
		PerPage:   15,
	}

	sql, args, err := countToursQuery(q).ToSql()
	require.NoError(t, err)
	require.Equal(t, "SELECT COUNT(*) FROM tours WHERE travel_id = $1 AND price >= $2", sql)
	require.Equal(t, []interface{}{int64(7), int64(100)}, args)
}

func TestListTravelsQueryForcesPublic(t *testing.T) {
	q := repo.TravelQuery{
		PublicOnly: true,
		Page:       1,
		PerPage:    10,
	}

	sql, args, err := listTravelsQuery(q).ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "is_public = $1")
	require.Contains(t, sql, "ORDER BY id ASC LIMIT 10 OFFSET 0")
	require.Equal(t, []interface{}{true}, args)
}

func TestPaginateGuardsPage(t *testing.T) {
	q := repo.TourQuery{ //nolint:exhaustruct
		TravelID: 7,
		Page:     0,
		PerPage:  15,
	}

	sql, _, err := listToursQuery(q).ToSql()
	require.NoError(t, err)
	require.Contains(t, sql, "OFFSET 0")
}
