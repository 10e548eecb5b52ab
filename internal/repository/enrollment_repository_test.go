package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var enrollmentRowColumns = []string{"id", "full_name", "national_id", "email", "phone", "gender", "birth_date",
	"it_background", "school", "referral", "referral_friend", "course_title", "submitted_at", "client_ip",
	"user_agent", "accepted_terms", "base_price", "final_price", "coupon_code", "payment_method",
	"payment_reference", "payment_url", "subscription_requested", "subscription_updated_at"}

func enrollmentRow(rows *sqlmock.Rows, id string) *sqlmock.Rows {
	return rows.AddRow(id, "Ana", "12345678900", "ana@example.com", "11999999999", "", "", "", "", "", "",
		"Introdução à Programação", time.Now(), "10.0.0.1", "ua", true, "200.00", "180.00", "BEMVINDO10",
		nil, nil, nil, false, nil)
}

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE national_id = $1 AND course_title = $2 LIMIT 1")).
		WithArgs("12345678900", "Intro").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	exists, err := repo.ExistsByNationalIDAndCourse(context.Background(), "12345678900", "Intro")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments")).
		WithArgs("000", "Intro").
		WillReturnError(sql.ErrNoRows)
	exists, err = repo.ExistsByNationalIDAndCourse(context.Background(), "000", "Intro")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsPropagatesFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments")).WillReturnError(errors.New("timeout"))
	exists, err := repo.ExistsByNationalIDAndCourse(context.Background(), "1", "Intro")
	require.Error(t, err)
	assert.False(t, exists)
}

func TestEnrollmentRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "enrollments_national_id_course_key"})

	err := repo.Create(context.Background(), &models.Enrollment{ID: "enr-1", BasePrice: decimal.NewFromInt(200), FinalPrice: decimal.NewFromInt(200)})
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).WillReturnResult(sqlmock.NewResult(0, 1))
	err := repo.Create(context.Background(), &models.Enrollment{ID: "enr-1", BasePrice: decimal.NewFromInt(200), FinalPrice: decimal.NewFromInt(180)})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE id = $1")).
		WithArgs("enr-1").
		WillReturnRows(enrollmentRow(sqlmock.NewRows(enrollmentRowColumns), "enr-1"))

	enrollment, err := repo.FindByID(context.Background(), "enr-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", enrollment.FullName)
	assert.True(t, enrollment.FinalPrice.Equal(decimal.NewFromInt(180)))
	require.NotNil(t, enrollment.CouponCode)
	assert.Equal(t, "BEMVINDO10", *enrollment.CouponCode)
	assert.Nil(t, enrollment.PaymentURL)
}

func TestEnrollmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows(enrollmentRowColumns)
	enrollmentRow(rows, "enr-1")
	enrollmentRow(rows, "enr-2")
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments WHERE course_title = $1 ORDER BY submitted_at DESC LIMIT 20 OFFSET 20")).
		WithArgs("Intro").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE course_title = $1")).
		WithArgs("Intro").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(22))

	list, total, err := repo.List(context.Background(), models.EnrollmentFilter{CourseTitle: "Intro", Page: 2, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 22, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE id = $1")).
		WithArgs("enr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), "enr-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdatePayment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET payment_method = $2, payment_reference = $3, payment_url = $4 WHERE id = $1")).
		WithArgs("enr-1", "PIX", "lnk_1", "https://pay/lnk_1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdatePayment(context.Background(), "enr-1", models.PaymentMethodPIX, "lnk_1", "https://pay/lnk_1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateSubscription(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	at := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET subscription_requested = $2")).
		WithArgs("enr-1", true, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateSubscription(context.Background(), "enr-1", true, at))
	require.NoError(t, mock.ExpectationsWereMet())
}
