package buddy

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedalmate/pedalmate/pkg/geo"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL buddy request repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const requestColumns = `
	id, owner_id, experienced_user_id,
	experienced_route_id, inexperienced_route_id, experienced_route_name,
	meeting_lat, meeting_lon, divorce_lat, divorce_lon,
	meeting_point_name, divorce_point_name,
	meeting_time, divorce_time,
	route, length_m, average_speed,
	status, reason, review,
	created_at, updated_at
`

// Get retrieves a request by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM buddy_requests WHERE id = $1`
	return scanRequest(r.pool.QueryRow(ctx, query, id))
}

func scanRequest(row pgx.Row) (*Request, error) {
	var (
		req     Request
		encoded string
		status  string
	)

	err := row.Scan(
		&req.ID,
		&req.OwnerID,
		&req.ExperiencedUserID,
		&req.ExperiencedRouteID,
		&req.InexperiencedRouteID,
		&req.ExperiencedRouteName,
		&req.MeetingPoint.Lat,
		&req.MeetingPoint.Lon,
		&req.DivorcePoint.Lat,
		&req.DivorcePoint.Lon,
		&req.MeetingPointName,
		&req.DivorcePointName,
		&req.MeetingTime,
		&req.DivorceTime,
		&encoded,
		&req.Length,
		&req.AverageSpeed,
		&status,
		&req.Reason,
		&req.Review,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	req.Route = geo.Decode(encoded)
	req.Status = Status(status)

	return &req, nil
}

// List retrieves requests matching the filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*Request, error) {
	query := `SELECT ` + requestColumns + ` FROM buddy_requests WHERE 1=1`
	args := []interface{}{}

	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		query += ` AND owner_id = $1`
	}
	if f.ExperiencedUserID != "" {
		args = append(args, f.ExperiencedUserID)
		if len(args) == 1 {
			query += ` AND experienced_user_id = $1`
		} else {
			query += ` AND experienced_user_id = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListActiveByRoute retrieves non-terminal requests referencing the route.
func (r *PostgresRepository) ListActiveByRoute(ctx context.Context, routeID string) ([]*Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM buddy_requests
		WHERE experienced_route_id = $1
		  AND status IN ('pending', 'accepted', 'rejected')
	`

	rows, err := r.pool.Query(ctx, query, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListActiveByUser retrieves non-terminal requests the user participates in.
func (r *PostgresRepository) ListActiveByUser(ctx context.Context, userID string) ([]*Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM buddy_requests
		WHERE (owner_id = $1 OR experienced_user_id = $1)
		  AND status IN ('pending', 'accepted', 'rejected')
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]*Request, error) {
	var requests []*Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

// Create creates a new request.
func (r *PostgresRepository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO buddy_requests (
			id, owner_id, experienced_user_id,
			experienced_route_id, inexperienced_route_id, experienced_route_name,
			meeting_lat, meeting_lon, divorce_lat, divorce_lon,
			meeting_point_name, divorce_point_name,
			meeting_time, divorce_time,
			route, length_m, average_speed,
			status, reason, review,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`

	_, err := r.pool.Exec(ctx, query,
		req.ID,
		req.OwnerID,
		req.ExperiencedUserID,
		req.ExperiencedRouteID,
		req.InexperiencedRouteID,
		req.ExperiencedRouteName,
		req.MeetingPoint.Lat,
		req.MeetingPoint.Lon,
		req.DivorcePoint.Lat,
		req.DivorcePoint.Lon,
		req.MeetingPointName,
		req.DivorcePointName,
		req.MeetingTime,
		req.DivorceTime,
		geo.Encode(req.Route),
		req.Length,
		req.AverageSpeed,
		string(req.Status),
		req.Reason,
		req.Review,
		req.CreatedAt,
		req.UpdatedAt,
	)
	return err
}

// Update persists req only if the stored row still carries expectedUpdated.
// The immutable creation-time fields are deliberately not in the SET list.
func (r *PostgresRepository) Update(ctx context.Context, req *Request, expectedUpdated time.Time) error {
	query := `
		UPDATE buddy_requests SET
			meeting_lat = $3,
			meeting_lon = $4,
			divorce_lat = $5,
			divorce_lon = $6,
			meeting_point_name = $7,
			divorce_point_name = $8,
			meeting_time = $9,
			divorce_time = $10,
			status = $11,
			reason = $12,
			review = $13,
			updated_at = $14
		WHERE id = $1 AND updated_at = $2
	`

	result, err := r.pool.Exec(ctx, query,
		req.ID,
		expectedUpdated,
		req.MeetingPoint.Lat,
		req.MeetingPoint.Lon,
		req.DivorcePoint.Lat,
		req.DivorcePoint.Lon,
		req.MeetingPointName,
		req.DivorcePointName,
		req.MeetingTime,
		req.DivorceTime,
		string(req.Status),
		req.Reason,
		req.Review,
		req.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		// Either the row is gone or a concurrent writer got there first.
		if _, getErr := r.Get(ctx, req.ID); getErr != nil {
			return getErr
		}
		return ErrConflict
	}

	return nil
}

// Delete deletes a request by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM buddy_requests WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
