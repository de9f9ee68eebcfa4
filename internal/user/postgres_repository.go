package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `
	id, display_name, locale,
	distance_travelled, helped_count, users_helped, rating_sum, rating,
	created_at, updated_at
`

// Get retrieves a user by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.Locale,
		&user.Reputation.DistanceTravelled,
		&user.Reputation.HelpedCount,
		&user.Reputation.UsersHelped,
		&user.Reputation.RatingSum,
		&user.Reputation.Rating,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// Create creates a new user.
func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, display_name, locale,
			distance_travelled, helped_count, users_helped, rating_sum, rating,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.DisplayName,
		user.Locale,
		user.Reputation.DistanceTravelled,
		user.Reputation.HelpedCount,
		user.Reputation.UsersHelped,
		user.Reputation.RatingSum,
		user.Reputation.Rating,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

// Update updates an existing user.
func (r *PostgresRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users SET
			display_name = $2,
			locale = $3,
			distance_travelled = $4,
			helped_count = $5,
			users_helped = $6,
			rating_sum = $7,
			rating = $8,
			updated_at = $9
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		user.ID,
		user.DisplayName,
		user.Locale,
		user.Reputation.DistanceTravelled,
		user.Reputation.HelpedCount,
		user.Reputation.UsersHelped,
		user.Reputation.RatingSum,
		user.Reputation.Rating,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Delete deletes a user.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
