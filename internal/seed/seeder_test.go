package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories/postgres"
)

func newTestSeeder(t *testing.T, cfg Config) (*Seeder, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg.HashCost = bcrypt.MinCost
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(db, repo, logger, cfg), db
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeeder_Run(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	seeder, db := newTestSeeder(t, cfg)

	result, err := seeder.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.UserIDs, 10)
	assert.Len(t, result.CourseIDs, 5)
	assert.Len(t, result.StudentIDs, 20)
	assert.EqualValues(t, 10, count(t, db, &models.User{}))
	assert.EqualValues(t, 5, count(t, db, &models.Course{}))
	assert.EqualValues(t, 20, count(t, db, &models.Student{}))

	var students []models.Student
	require.NoError(t, db.Preload("Courses").Find(&students).Error)
	for _, student := range students {
		ids := student.CourseIDs()
		assert.GreaterOrEqual(t, len(ids), minCoursesPerStudent)
		assert.LessOrEqual(t, len(ids), maxCoursesPerStudent)

		seen := make(map[uint]bool)
		for _, id := range ids {
			assert.False(t, seen[id], "student %d enrolled twice in course %d", student.ID, id)
			seen[id] = true
		}
		assert.Contains(t, result.UserIDs, student.UserID)
	}

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, user := range users {
		assert.True(t, user.Role.IsValid())
		cost, err := bcrypt.Cost([]byte(user.Password))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	}
}

func TestSeeder_MissingCoursesRollsBackStudents(t *testing.T) {
	seeder, db := newTestSeeder(t, Config{Users: 3, Courses: 0, Students: 4, Seed: 7})

	result, err := seeder.Run(context.Background())
	require.ErrorIs(t, err, ErrNoCourses)

	assert.Len(t, result.UserIDs, 3)
	assert.Empty(t, result.StudentIDs)
	assert.EqualValues(t, 3, count(t, db, &models.User{}))
	assert.EqualValues(t, 0, count(t, db, &models.Student{}))
}

func TestSeeder_MissingUsers(t *testing.T) {
	seeder, db := newTestSeeder(t, Config{Users: 0, Courses: 2, Students: 1, Seed: 7})

	_, err := seeder.Run(context.Background())
	require.ErrorIs(t, err, ErrNoUsers)
	assert.EqualValues(t, 2, count(t, db, &models.Course{}))
}

func TestPickCourses(t *testing.T) {
	seeder, _ := newTestSeeder(t, Config{Seed: 1})

	for i := 0; i < 50; i++ {
		picked := seeder.pickCourses([]uint{1, 2, 3, 4, 5})
		assert.GreaterOrEqual(t, len(picked), 1)
		assert.LessOrEqual(t, len(picked), 3)

		seen := make(map[uint]bool)
		for _, id := range picked {
			assert.False(t, seen[id])
			seen[id] = true
		}
	}

	assert.Equal(t, []uint{9}, seeder.pickCourses([]uint{9}))
}
