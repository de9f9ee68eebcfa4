package route

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedalmate/pedalmate/pkg/geo"
)

// metersPerDegreeLat is the approximate north-south extent of one degree of
// latitude, used to widen bounding boxes by a radius expressed in meters.
const metersPerDegreeLat = 111195.0

// PostgresRepository is a PostgreSQL implementation of Repository.
//
// Geometry is stored as an encoded polyline string alongside its bounding
// box; the days set is stored as its raw bitmask. FindNear filters on the
// stored bounding box only.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL route repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const routeColumns = `
	id, owner_id, name, polyline,
	departure_seconds, arrival_seconds, days,
	created_at, updated_at
`

// Get retrieves a route by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`
	return r.scanRoute(r.pool.QueryRow(ctx, query, id))
}

// GetByOwnerAndID retrieves a route by owner ID and route ID.
func (r *PostgresRepository) GetByOwnerAndID(ctx context.Context, ownerID, routeID string) (*Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1 AND owner_id = $2`
	return r.scanRoute(r.pool.QueryRow(ctx, query, routeID, ownerID))
}

func (r *PostgresRepository) scanRoute(row pgx.Row) (*Route, error) {
	var (
		route            Route
		encoded          string
		departureSeconds int64
		arrivalSeconds   int64
		days             int16
	)

	err := row.Scan(
		&route.ID,
		&route.OwnerID,
		&route.Name,
		&encoded,
		&departureSeconds,
		&arrivalSeconds,
		&days,
		&route.CreatedAt,
		&route.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}

	route.Polyline = geo.Decode(encoded)
	route.Departure = time.Duration(departureSeconds) * time.Second
	route.Arrival = time.Duration(arrivalSeconds) * time.Second
	route.Days = DaySet(days) //nolint:gosec // mask is 7 bits

	return &route, nil
}

// ListByOwner retrieves all routes owned by a user with pagination.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ownerID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes, err := r.collectRoutes(rows)
	if err != nil {
		return nil, err
	}

	result := &ListResult{Items: routes}
	if len(routes) > limit {
		result.Items = routes[:limit]
		result.NextCursor = routes[limit-1].ID
	}

	return result, nil
}

// FindNear retrieves routes whose bounding box, expanded by radiusMeters,
// contains the given point.
func (r *PostgresRepository) FindNear(ctx context.Context, p geo.Point, radiusMeters float64) ([]*Route, error) {
	latDelta := radiusMeters / metersPerDegreeLat
	lonDelta := latDelta
	if cosLat := math.Cos(p.Lat * math.Pi / 180); cosLat > 0.01 {
		lonDelta = latDelta / cosLat
	}

	query := `
		SELECT ` + routeColumns + `
		FROM routes
		WHERE min_lat <= $1 AND max_lat >= $2
		  AND min_lon <= $3 AND max_lon >= $4
	`

	rows, err := r.pool.Query(ctx, query,
		p.Lat+latDelta, p.Lat-latDelta,
		p.Lon+lonDelta, p.Lon-lonDelta,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectRoutes(rows)
}

// ListAll retrieves every stored route.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectRoutes(rows)
}

func (r *PostgresRepository) collectRoutes(rows pgx.Rows) ([]*Route, error) {
	var routes []*Route
	for rows.Next() {
		route, err := r.scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return routes, nil
}

// Create creates a new route.
func (r *PostgresRepository) Create(ctx context.Context, route *Route) error {
	query := `
		INSERT INTO routes (
			id, owner_id, name, polyline,
			departure_seconds, arrival_seconds, days,
			min_lat, min_lon, max_lat, max_lon,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	minLat, minLon, maxLat, maxLon := route.Bounds()

	_, err := r.pool.Exec(ctx, query,
		route.ID,
		route.OwnerID,
		route.Name,
		geo.Encode(route.Polyline),
		int64(route.Departure/time.Second),
		int64(route.Arrival/time.Second),
		int16(route.Days),
		minLat, minLon, maxLat, maxLon,
		route.CreatedAt,
		route.UpdatedAt,
	)
	return err
}

// Update updates an existing route.
func (r *PostgresRepository) Update(ctx context.Context, route *Route) error {
	query := `
		UPDATE routes SET
			name = $2,
			polyline = $3,
			departure_seconds = $4,
			arrival_seconds = $5,
			days = $6,
			min_lat = $7,
			min_lon = $8,
			max_lat = $9,
			max_lon = $10,
			updated_at = $11
		WHERE id = $1
	`

	minLat, minLon, maxLat, maxLon := route.Bounds()

	result, err := r.pool.Exec(ctx, query,
		route.ID,
		route.Name,
		geo.Encode(route.Polyline),
		int64(route.Departure/time.Second),
		int64(route.Arrival/time.Second),
		int16(route.Days),
		minLat, minLon, maxLat, maxLon,
		route.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrRouteNotFound
	}

	return nil
}

// Delete deletes a route by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM routes WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// DeleteByOwner deletes every route owned by a user.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) ([]string, error) {
	query := `DELETE FROM routes WHERE owner_id = $1 RETURNING id`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
