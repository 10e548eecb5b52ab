package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

// ClubInterestRepository persists interest-list signups.
type ClubInterestRepository struct {
	db *sqlx.DB
}

// NewClubInterestRepository constructs the repository.
func NewClubInterestRepository(db *sqlx.DB) *ClubInterestRepository {
	return &ClubInterestRepository{db: db}
}

// ExistsByEmail reports whether email already signed up.
func (r *ClubInterestRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM club_interests WHERE email = $1 LIMIT 1`, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check club interest: %w", err)
	}
	return true, nil
}

// Create inserts a signup; a repeated email yields ErrDuplicate.
func (r *ClubInterestRepository) Create(ctx context.Context, interest *models.ClubInterest) error {
	const query = `INSERT INTO club_interests (id, name, email, phone, interests, consent, created_at)
        VALUES (:id, :name, :email, :phone, :interests, :consent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, interest); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create club interest: %w", err)
	}
	return nil
}
