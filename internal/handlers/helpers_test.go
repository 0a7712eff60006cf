package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/school-records-service/internal/cache"
	"github.com/SAP-F-2025/school-records-service/internal/events"
	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/school-records-service/internal/services"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
	"github.com/SAP-F-2025/school-records-service/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiEnv struct {
	db        *gorm.DB
	router    *gin.Engine
	publisher *events.MockEventPublisher
}

type failingChecker struct{ err error }

func (f failingChecker) HealthCheck(context.Context) error { return f.err }

func newAPIEnv(t *testing.T, extraCheckers map[string]HealthChecker) *apiEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(slogger)

	settings := services.DefaultSettings()
	settings.PasswordHashCost = bcrypt.MinCost

	manager := services.NewServiceManager(
		postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db}),
		slogger,
		validator.New(),
		cache.NewCacheManager(nil),
		publisher,
		settings,
	)
	require.NoError(t, manager.Initialize(context.Background()))

	checkers := map[string]HealthChecker{"services": manager}
	for name, checker := range extraCheckers {
		checkers[name] = checker
	}

	logger := utils.NewSlogLogger(slogger)
	router := gin.New()
	SetupMiddleware(router, logger)
	NewHandlerManager(manager, logger, checkers).SetupRoutes(router)

	return &apiEnv{db: db, router: router, publisher: publisher}
}

func (env *apiEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (env *apiEnv) createUser(t *testing.T, name string, role models.UserRole) models.User {
	t.Helper()
	w := env.do(t, http.MethodPost, "/create_users", gin.H{
		"name":     name,
		"login":    name,
		"password": name + "-secret",
		"phone":    "555-0100",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.User](t, w)
}

func (env *apiEnv) createCourse(t *testing.T, title string) models.Course {
	t.Helper()
	w := env.do(t, http.MethodPost, "/create_courses", gin.H{"title": title})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[models.Course](t, w)
}
