package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/school-records-service/internal/cache"
	"github.com/SAP-F-2025/school-records-service/internal/events"
	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/school-records-service/internal/validator"
)

type testEnv struct {
	db        *gorm.DB
	publisher *events.MockEventPublisher
	cache     *cache.CacheManager
	redis     *miniredis.Miniredis
	deps      Dependencies

	users    UserService
	students StudentService
	courses  CourseService
}

type envOption func(*testing.T, *testEnv)

// withRedis backs the cache manager with an in-memory redis.
func withRedis() envOption {
	return func(t *testing.T, env *testEnv) {
		env.redis = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: env.redis.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		env.cache = cache.NewCacheManager(client)
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env := &testEnv{
		db:        db,
		publisher: events.NewMockEventPublisher(logger),
		cache:     cache.NewCacheManager(nil),
	}
	for _, opt := range opts {
		opt(t, env)
	}

	settings := DefaultSettings()
	settings.PasswordHashCost = bcrypt.MinCost
	settings.BatchMaxItems = 10

	env.deps = Dependencies{
		Repo:      postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db}),
		Logger:    logger,
		Validator: validator.New(),
		Cache:     env.cache,
		Publisher: env.publisher,
		Settings:  settings,
	}
	env.users = NewUserService(env.deps)
	env.students = NewStudentService(env.deps)
	env.courses = NewCourseService(env.deps)

	return env
}

func (env *testEnv) createUser(t *testing.T, name string, role models.UserRole, password string) *models.User {
	t.Helper()
	user, err := env.users.CreateUser(context.Background(), &CreateUserRequest{
		Name:     name,
		Login:    name,
		Password: password,
		Phone:    "555-0100",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func (env *testEnv) createCourse(t *testing.T, title string) *models.Course {
	t.Helper()
	courses, err := env.courses.CreateCourses(context.Background(), models.Single(CreateCourseRequest{Title: title}))
	require.NoError(t, err)
	return courses[0]
}

func (env *testEnv) createStudent(t *testing.T, actorID uint, req CreateStudentRequest) *models.Student {
	t.Helper()
	students, err := env.students.CreateStudents(context.Background(), actorID, models.Single(req))
	require.NoError(t, err)
	return students[0]
}

func (env *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(model).Count(&n).Error)
	return n
}

// enrolledCourseIDs reads the join table directly.
func (env *testEnv) enrolledCourseIDs(t *testing.T, studentID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, env.db.Model(&models.StudentCourse{}).
		Where("student_id = ?", studentID).
		Order("course_id").
		Pluck("course_id", &ids).Error)
	return ids
}
