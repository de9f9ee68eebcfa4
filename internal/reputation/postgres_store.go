package reputation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/user"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// PostgresStore applies reviews inside a single transaction with row
// locks on the request and both riders.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL review store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ApplyReview implements Store. The request row and both user rows are
// locked for the duration of the transaction, so concurrent reviews of
// the same ride serialize instead of double counting.
func (s *PostgresStore) ApplyReview(ctx context.Context, requestID string, fn ReviewFunc) (*buddy.Request, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	req, err := lockRequest(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	// Lock in ID order so two reviews touching the same pair of riders
	// can't deadlock.
	firstID, secondID := req.OwnerID, req.ExperiencedUserID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := lockUser(ctx, tx, firstID)
	if err != nil {
		return nil, err
	}
	second, err := lockUser(ctx, tx, secondID)
	if err != nil {
		return nil, err
	}

	owner, experienced := first, second
	if owner.ID != req.OwnerID {
		owner, experienced = second, first
	}

	if err := fn(req, owner, experienced); err != nil {
		return nil, err
	}

	if err := updateRequestReview(ctx, tx, req); err != nil {
		return nil, err
	}
	if err := updateReputation(ctx, tx, owner); err != nil {
		return nil, err
	}
	if err := updateReputation(ctx, tx, experienced); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return req, nil
}

func lockRequest(ctx context.Context, tx pgx.Tx, id string) (*buddy.Request, error) {
	query := `
		SELECT
			id, owner_id, experienced_user_id,
			experienced_route_id, inexperienced_route_id, experienced_route_name,
			meeting_lat, meeting_lon, divorce_lat, divorce_lon,
			meeting_point_name, divorce_point_name,
			meeting_time, divorce_time,
			route, length_m, average_speed,
			status, reason, review,
			created_at, updated_at
		FROM buddy_requests
		WHERE id = $1
		FOR UPDATE
	`

	var (
		req     buddy.Request
		encoded string
		status  string
	)
	err := tx.QueryRow(ctx, query, id).Scan(
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
			return nil, buddy.ErrRequestNotFound
		}
		return nil, err
	}

	req.Route = geo.Decode(encoded)
	req.Status = buddy.Status(status)

	return &req, nil
}

func lockUser(ctx context.Context, tx pgx.Tx, id string) (*user.User, error) {
	query := `
		SELECT
			id, display_name, locale,
			distance_travelled, helped_count, users_helped, rating_sum, rating,
			created_at, updated_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`

	var u user.User
	err := tx.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.DisplayName,
		&u.Locale,
		&u.Reputation.DistanceTravelled,
		&u.Reputation.HelpedCount,
		&u.Reputation.UsersHelped,
		&u.Reputation.RatingSum,
		&u.Reputation.Rating,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func updateRequestReview(ctx context.Context, tx pgx.Tx, req *buddy.Request) error {
	query := `
		UPDATE buddy_requests SET
			status = $2,
			review = $3,
			updated_at = $4
		WHERE id = $1
	`
	_, err := tx.Exec(ctx, query, req.ID, string(req.Status), req.Review, req.UpdatedAt)
	return err
}

func updateReputation(ctx context.Context, tx pgx.Tx, u *user.User) error {
	query := `
		UPDATE users SET
			distance_travelled = $2,
			helped_count = $3,
			users_helped = $4,
			rating_sum = $5,
			rating = $6,
			updated_at = $7
		WHERE id = $1
	`
	_, err := tx.Exec(ctx, query,
		u.ID,
		u.Reputation.DistanceTravelled,
		u.Reputation.HelpedCount,
		u.Reputation.UsersHelped,
		u.Reputation.RatingSum,
		u.Reputation.Rating,
		u.UpdatedAt,
	)
	return err
}

// Ensure PostgresStore implements Store interface.
var _ Store = (*PostgresStore)(nil)
