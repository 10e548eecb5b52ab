package database

import (
	"context"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-enrollment-api/pkg/config"
)

func TestMigrationsExcludeSeedByDefault(t *testing.T) {
	migrations, err := Migrations(false)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	for _, m := range migrations {
		assert.NotContains(t, m.Name, "seed")
	}
	assert.Contains(t, migrations[0].SQL, "enrollments_national_id_course_key")
}

func TestMigrationsWithSeedAreOrdered(t *testing.T) {
	migrations, err := Migrations(true)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "0001_init.sql", migrations[0].Name)
	assert.True(t, strings.HasPrefix(migrations[1].Name, "0002"))
}

func TestApplyRunsEachMigrationInTransaction(t *testing.T) {
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	migrations := []Migration{{Name: "a.sql", SQL: "CREATE TABLE a (id INT)"}, {Name: "b.sql", SQL: "CREATE TABLE b (id INT)"}}
	for _, m := range migrations {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(m.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
	}

	require.NoError(t, Apply(context.Background(), db, migrations))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", dsn)
}
