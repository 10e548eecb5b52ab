package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

// CouponRepository reads course-scoped coupons.
type CouponRepository struct {
	db *sqlx.DB
}

// NewCouponRepository constructs the repository.
func NewCouponRepository(db *sqlx.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// FindByCodeAndCourse looks a coupon up by its composite key. Active and
// available flags are returned as stored; callers decide applicability.
func (r *CouponRepository) FindByCodeAndCourse(ctx context.Context, code, courseTitle string) (*models.Coupon, error) {
	const query = `SELECT code, course_title, discount_type, discount_value, active, available
        FROM coupons WHERE code = $1 AND course_title = $2`
	var coupon models.Coupon
	if err := r.db.GetContext(ctx, &coupon, query, code, courseTitle); err != nil {
		return nil, err
	}
	return &coupon, nil
}
