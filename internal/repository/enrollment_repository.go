package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

const enrollmentColumns = `id, full_name, national_id, email, phone, gender, birth_date, it_background, school,
        referral, referral_friend, course_title, submitted_at, client_ip, user_agent, accepted_terms,
        base_price, final_price, coupon_code, payment_method, payment_reference, payment_url,
        subscription_requested, subscription_updated_at`

// Page size bounds for enrollment listings.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ExistsByNationalIDAndCourse is an indexed point lookup on the
// (national_id, course_title) unique key.
func (r *EnrollmentRepository) ExistsByNationalIDAndCourse(ctx context.Context, nationalID, courseTitle string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE national_id = $1 AND course_title = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, nationalID, courseTitle); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check duplicate enrollment: %w", err)
	}
	return true, nil
}

// Create inserts a new enrollment. A concurrent insert for the same
// (national_id, course_title) pair loses with ErrDuplicate.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (id, full_name, national_id, email, phone, gender, birth_date, it_background,
        school, referral, referral_friend, course_title, submitted_at, client_ip, user_agent, accepted_terms,
        base_price, final_price, coupon_code)
        VALUES (:id, :full_name, :national_id, :email, :phone, :gender, :birth_date, :it_background,
        :school, :referral, :referral_friend, :course_title, :submitted_at, :client_ip, :user_agent, :accepted_terms,
        :base_price, :final_price, :coupon_code)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// List returns enrollments newest first with the total count.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	clause := ""
	var args []interface{}
	if filter.CourseTitle != "" {
		clause = " WHERE course_title = $1"
		args = append(args, filter.CourseTitle)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM enrollments%s ORDER BY submitted_at DESC LIMIT %d OFFSET %d`, enrollmentColumns, clause, size, offset)
	enrollments := []models.Enrollment{}
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM enrollments`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// Delete removes an enrollment, returning sql.ErrNoRows when nothing matched.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return requireAffected(res)
}

// UpdatePayment records the provider reference for an issued charge.
func (r *EnrollmentRepository) UpdatePayment(ctx context.Context, id string, method models.PaymentMethod, reference, url string) error {
	const query = `UPDATE enrollments SET payment_method = $2, payment_reference = $3, payment_url = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, string(method), reference, url)
	if err != nil {
		return fmt.Errorf("update enrollment payment: %w", err)
	}
	return requireAffected(res)
}

// UpdateSubscription sets the subscription-intent flag.
func (r *EnrollmentRepository) UpdateSubscription(ctx context.Context, id string, requested bool, at time.Time) error {
	const query = `UPDATE enrollments SET subscription_requested = $2, subscription_updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, requested, at)
	if err != nil {
		return fmt.Errorf("update enrollment subscription: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
