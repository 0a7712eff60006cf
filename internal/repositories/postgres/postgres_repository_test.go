package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
)

func newMockRepo(t *testing.T) (repositories.Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewPostgreSQLRepository(RepositoryConfig{DB: db}), mock
}

func TestUserPostgreSQL_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "login", "role"}).
			AddRow(1, "alice", "alice", "admin"))

	user, err := repo.User().GetByID(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)
	assert.True(t, user.IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgreSQL_GetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.User().GetByID(context.Background(), nil, 42)
	assert.True(t, repositories.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgreSQL_Create(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	user := &models.User{Name: "bob", Login: "bob", Password: "hash", Phone: "555", Role: models.RoleUser}
	require.NoError(t, repo.User().Create(context.Background(), nil, user))
	assert.Equal(t, uint(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgreSQL_ListAppliesPagination(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "users" ORDER BY users\.id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "e").AddRow(6, "f"))

	users, err := repo.User().List(context.Background(), nil, repositories.ListFilters{Offset: 4, Limit: 2})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, uint(5), users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgreSQL_ExistsByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.User().ExistsByID(context.Background(), nil, 3)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoursePostgreSQL_DeleteDetachesStudents(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "student_course" WHERE course_id = $1`)).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "courses" WHERE "courses"."id" = $1`)).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Course().Delete(context.Background(), nil, 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoursePostgreSQL_DeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "student_course"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "courses"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Course().Delete(context.Background(), nil, 9)
	assert.True(t, repositories.IsNotFoundError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoursePostgreSQL_GetByIDsEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)

	courses, err := repo.Course().GetByIDs(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, courses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "students" WHERE user_id = $1`)).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
		mock.ExpectCommit()

		var n int64
		err := repo.WithTransaction(context.Background(), func(tx *gorm.DB) error {
			var err error
			n, err = repo.Student().CountByUser(context.Background(), tx, 3)
			return err
		})
		require.NoError(t, err)
		assert.EqualValues(t, 4, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := repo.WithTransaction(context.Background(), func(tx *gorm.DB) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
