package journey

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedalmate/pedalmate/internal/route"
)

const journeyColumns = `
	id, user_id, label,
	start_lat, start_lon, end_lat, end_lon,
	radius_meters, days_of_week, notes,
	created_at, updated_at
`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL journey repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a journey by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE id = $1`
	return r.scanJourney(ctx, query, id)
}

// GetByUserAndID retrieves a journey by user ID and journey ID.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, journeyID string) (*Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE id = $1 AND user_id = $2`
	return r.scanJourney(ctx, query, journeyID, userID)
}

// scanJourney scans a journey from a query result.
func (r *PostgresRepository) scanJourney(ctx context.Context, query string, args ...interface{}) (*Journey, error) {
	var (
		j    Journey
		days int
	)

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&j.ID,
		&j.UserID,
		&j.Label,
		&j.Start.Lat,
		&j.Start.Lon,
		&j.End.Lat,
		&j.End.Lon,
		&j.RadiusMeters,
		&days,
		&j.Notes,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJourneyNotFound
		}
		return nil, err
	}

	j.Days = route.DaySet(days) //nolint:gosec // days_of_week is a 7-bit mask
	return &j, nil
}

// List retrieves all journeys for a user with pagination.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT ` + journeyColumns + `
		FROM journeys
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var journeys []*Journey
	for rows.Next() {
		var (
			j    Journey
			days int
		)
		err := rows.Scan(
			&j.ID,
			&j.UserID,
			&j.Label,
			&j.Start.Lat,
			&j.Start.Lon,
			&j.End.Lat,
			&j.End.Lon,
			&j.RadiusMeters,
			&days,
			&j.Notes,
			&j.CreatedAt,
			&j.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		j.Days = route.DaySet(days) //nolint:gosec // days_of_week is a 7-bit mask
		journeys = append(journeys, &j)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: journeys,
	}

	// If we got more results than the limit, there are more pages
	if len(journeys) > limit {
		result.Items = journeys[:limit]
		result.NextCursor = journeys[limit-1].ID
	}

	return result, nil
}

// Create creates a new journey.
func (r *PostgresRepository) Create(ctx context.Context, j *Journey) error {
	query := `
		INSERT INTO journeys (
			id, user_id, label,
			start_lat, start_lon, end_lat, end_lon,
			radius_meters, days_of_week, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		j.ID,
		j.UserID,
		j.Label,
		j.Start.Lat,
		j.Start.Lon,
		j.End.Lat,
		j.End.Lon,
		j.RadiusMeters,
		int(j.Days),
		j.Notes,
		j.CreatedAt,
		j.UpdatedAt,
	)
	return err
}

// Update updates an existing journey.
func (r *PostgresRepository) Update(ctx context.Context, j *Journey) error {
	query := `
		UPDATE journeys SET
			label = $2,
			start_lat = $3,
			start_lon = $4,
			end_lat = $5,
			end_lon = $6,
			radius_meters = $7,
			days_of_week = $8,
			notes = $9,
			updated_at = $10
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		j.ID,
		j.Label,
		j.Start.Lat,
		j.Start.Lon,
		j.End.Lat,
		j.End.Lon,
		j.RadiusMeters,
		int(j.Days),
		j.Notes,
		j.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrJourneyNotFound
	}

	return nil
}

// Delete deletes a journey by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM journeys WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// DeleteByUser deletes every journey owned by a user.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM journeys WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
