package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-enrollment-api/internal/models"
)

var courseRowColumns = []string{"id", "title", "price", "active", "modality", "schedule", "created_at"}

func TestCourseRepositoryFindByTitle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE title = $1")).
		WithArgs("Intro").
		WillReturnRows(sqlmock.NewRows(courseRowColumns).AddRow("c1", "Intro", "R$ 200,00", true, "Online", "Noite", time.Now()))

	course, err := repo.FindByTitle(context.Background(), "Intro")
	require.NoError(t, err)
	assert.Equal(t, "R$ 200,00", course.Price)
	assert.True(t, course.Active)
}

func TestCourseRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).WithArgs("nope").WillReturnError(sql.ErrNoRows)
	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCourseRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses ORDER BY title")).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).
			AddRow("c1", "A", "R$ 1,00", true, "", "", time.Now()).
			AddRow("c2", "B", "R$ 2,00", false, "", "", time.Now()))
	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 2)
}

func TestCouponRepositoryFindByCodeAndCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCouponRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM coupons WHERE code = $1 AND course_title = $2")).
		WithArgs("BEMVINDO10", "Intro").
		WillReturnRows(sqlmock.NewRows([]string{"code", "course_title", "discount_type", "discount_value", "active", "available"}).
			AddRow("BEMVINDO10", "Intro", "percentage", "10", true, false))

	coupon, err := repo.FindByCodeAndCourse(context.Background(), "BEMVINDO10", "Intro")
	require.NoError(t, err)
	assert.Equal(t, models.DiscountPercentage, coupon.DiscountType)
	assert.False(t, coupon.Applicable())
}

func TestClubInterestRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClubInterestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO club_interests")).WillReturnError(&pq.Error{Code: "23505"})
	err := repo.Create(context.Background(), &models.ClubInterest{ID: "c1", Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestClubInterestRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClubInterestRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM club_interests WHERE email = $1")).
		WithArgs("a@b.c").
		WillReturnError(sql.ErrNoRows)
	exists, err := repo.ExistsByEmail(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.False(t, exists)
}
