package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"example.com/travelanalytics/internal/upstream"
)

// querier is the subset of *pgxpool.Pool the catalog uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Catalog implements the catalog-side collaborators with read-only queries.
type Catalog struct {
	q querier
}

var _ upstream.Catalog = (*Catalog)(nil)

func NewCatalog(db *DB) *Catalog { return &Catalog{q: db.Pool} }

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return upstream.ErrNotFound
	}
	return err
}

func (c *Catalog) AgeGroups(ctx context.Context) ([]upstream.AgeGroup, error) {
	rows, err := c.q.Query(ctx, `SELECT id, name, lower_limit_age, upper_limit_age FROM age_groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query age groups: %w", err)
	}
	defer rows.Close()

	var out []upstream.AgeGroup
	for rows.Next() {
		var g upstream.AgeGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.LowerAge, &g.UpperAge); err != nil {
			return nil, fmt.Errorf("scan age group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (c *Catalog) Itineraries(ctx context.Context, tourID int64) ([]upstream.Itinerary, error) {
	rows, err := c.q.Query(ctx, `
SELECT id, tour_id, name, is_visible_on_web, is_bookable
FROM itineraries
WHERE tour_id = $1
ORDER BY id ASC`, tourID)
	if err != nil {
		return nil, fmt.Errorf("query itineraries: %w", err)
	}
	defer rows.Close()

	var out []upstream.Itinerary
	for rows.Next() {
		var it upstream.Itinerary
		if err := rows.Scan(&it.ID, &it.TourID, &it.Name, &it.Visible, &it.Bookable); err != nil {
			return nil, fmt.Errorf("scan itinerary: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (c *Catalog) ItineraryDays(ctx context.Context, itineraryID int64) ([]upstream.ItineraryDay, error) {
	rows, err := c.q.Query(ctx, `
SELECT id, itinerary_id, day_number
FROM itinerary_days
WHERE itinerary_id = $1
ORDER BY day_number ASC`, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("query itinerary days: %w", err)
	}
	defer rows.Close()

	var out []upstream.ItineraryDay
	for rows.Next() {
		var d upstream.ItineraryDay
		if err := rows.Scan(&d.ID, &d.ItineraryID, &d.DayNumber); err != nil {
			return nil, fmt.Errorf("scan itinerary day: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// TourLocations returns every link when kinds is empty.
func (c *Catalog) TourLocations(ctx context.Context, tourID int64, kinds ...string) ([]upstream.TourLocation, error) {
	sql := "SELECT tour_id, location_id, relation_type, display_order FROM tour_locations WHERE tour_id = $1"
	args := []any{tourID}
	if len(kinds) > 0 {
		sql += " AND relation_type = ANY($2)"
		args = append(args, kinds)
	}
	sql += " ORDER BY display_order ASC"

	rows, err := c.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query tour locations: %w", err)
	}
	defer rows.Close()

	var out []upstream.TourLocation
	for rows.Next() {
		var l upstream.TourLocation
		if err := rows.Scan(&l.TourID, &l.LocationID, &l.Kind, &l.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan tour location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (c *Catalog) Locations(ctx context.Context, ids []int64) ([]upstream.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := c.q.Query(ctx, `SELECT id, name FROM locations WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var out []upstream.Location
	for rows.Next() {
		var l upstream.Location
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (c *Catalog) Tour(ctx context.Context, id int64) (*upstream.Tour, error) {
	var t upstream.Tour
	row := c.q.QueryRow(ctx, `SELECT id, COALESCE(tk_id, ''), name, COALESCE(trip_type_id, 0) FROM tours WHERE id = $1`, id)
	if err := row.Scan(&t.ID, &t.Code, &t.Name, &t.TripTypeID); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// DepartureMonths lists the distinct calendar months with an upcoming departure.
func (c *Catalog) DepartureMonths(ctx context.Context, tourID int64) ([]int, error) {
	rows, err := c.q.Query(ctx, `
SELECT DISTINCT EXTRACT(MONTH FROM d.departure_date)::int AS m
FROM departures d
JOIN itineraries i ON i.id = d.itinerary_id
WHERE i.tour_id = $1 AND d.departure_date >= CURRENT_DATE
ORDER BY m ASC`, tourID)
	if err != nil {
		return nil, fmt.Errorf("query departure months: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var m int
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan month: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AverageRating is zero when the tour has no reviews.
func (c *Catalog) AverageRating(ctx context.Context, tourID int64) (float64, error) {
	var avg float64
	row := c.q.QueryRow(ctx, `SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews WHERE tour_id = $1`, tourID)
	if err := row.Scan(&avg); err != nil {
		return 0, fmt.Errorf("scan rating: %w", err)
	}
	return avg, nil
}

func (c *Catalog) TourTags(ctx context.Context, tourID int64, relationKind string) ([]upstream.TourTag, error) {
	rows, err := c.q.Query(ctx, `
SELECT tour_id, tag_id, relation_type
FROM tour_tags
WHERE tour_id = $1 AND relation_type = $2
ORDER BY id ASC`, tourID, relationKind)
	if err != nil {
		return nil, fmt.Errorf("query tour tags: %w", err)
	}
	defer rows.Close()

	var out []upstream.TourTag
	for rows.Next() {
		var t upstream.TourTag
		if err := rows.Scan(&t.TourID, &t.TagID, &t.RelationKind); err != nil {
			return nil, fmt.Errorf("scan tour tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (c *Catalog) Tag(ctx context.Context, id int64) (*upstream.Tag, error) {
	var t upstream.Tag
	if err := c.q.QueryRow(ctx, `SELECT id, name FROM tags WHERE id = $1`, id).Scan(&t.ID, &t.Name); err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}
