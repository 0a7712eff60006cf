package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/school-records-service/internal/events"
	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
)

func TestUserService_CreateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("hashes password and defaults role", func(t *testing.T) {
		user, err := env.users.CreateUser(ctx, &CreateUserRequest{
			Name:     "Ann",
			Login:    "ann",
			Password: "secret",
			Phone:    "555-0101",
		})
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, models.RoleUser, user.Role)

		var stored models.User
		require.NoError(t, env.db.First(&stored, user.ID).Error)
		assert.NotEqual(t, "secret", stored.Password)
		assert.True(t, utils.CheckPassword(stored.Password, "secret"))

		assert.Len(t, env.publisher.EventsOfType(events.UserCreated), 1)
	})

	t.Run("id is stable across get", func(t *testing.T) {
		user := env.createUser(t, "Ben", models.RoleAdmin, "pw")

		got, err := env.users.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "Ben", got.Name)
		assert.Equal(t, models.RoleAdmin, got.Role)
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		before := env.count(t, &models.User{})

		_, err := env.users.CreateUser(ctx, &CreateUserRequest{Login: "x", Password: "p", Phone: "1", Role: "staff"})
		require.Error(t, err)

		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs))
		fields := make([]string, 0, len(verrs))
		for _, e := range verrs {
			fields = append(fields, e.Field)
		}
		assert.ElementsMatch(t, []string{"name", "role"}, fields)
		assert.Equal(t, before, env.count(t, &models.User{}))
	})

	t.Run("rejects password longer than bcrypt accepts", func(t *testing.T) {
		before := env.count(t, &models.User{})

		_, err := env.users.CreateUser(ctx, &CreateUserRequest{
			Name:     "Cid",
			Login:    "cid",
			Password: strings.Repeat("é", 40),
			Phone:    "555-0102",
		})
		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs))
		require.Len(t, verrs, 1)
		assert.Equal(t, "password", verrs[0].Field)
		assert.Equal(t, before, env.count(t, &models.User{}))
	})

	t.Run("logs through the request logger", func(t *testing.T) {
		var buf bytes.Buffer
		reqLogger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))).With("request_id", "req-1")
		reqCtx := utils.WithLogger(ctx, reqLogger)

		_, err := env.users.CreateUser(reqCtx, &CreateUserRequest{
			Name:     "Dan",
			Login:    "dan",
			Password: "pw",
			Phone:    "555-0103",
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Creating user")
		assert.Contains(t, out, "request_id=req-1")
		assert.Contains(t, out, "service=user")
	})
}

func TestUserService_UpdateUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Ann", models.RoleAdmin, "admin-pw")
	member := env.createUser(t, "Bob", models.RoleUser, "member-pw")

	update := func(name string, role models.UserRole) *UpdateUserRequest {
		return &UpdateUserRequest{Name: name, Login: name, Phone: "555-0199", Role: role}
	}

	t.Run("admin target needs no password", func(t *testing.T) {
		got, err := env.users.UpdateUser(ctx, admin.ID, update("Anna", models.RoleAdmin), "")
		require.NoError(t, err)
		assert.Equal(t, "Anna", got.Name)
		assert.Equal(t, "555-0199", got.Phone)
	})

	t.Run("non-admin target without password", func(t *testing.T) {
		_, err := env.users.UpdateUser(ctx, member.ID, update("Bobby", models.RoleUser), "")
		assert.ErrorIs(t, err, ErrPasswordRequired)
	})

	t.Run("non-admin target with wrong password", func(t *testing.T) {
		_, err := env.users.UpdateUser(ctx, member.ID, update("Bobby", models.RoleUser), "nope")
		assert.ErrorIs(t, err, ErrPasswordMismatch)

		got, err := env.users.GetUser(ctx, member.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", got.Name)
	})

	t.Run("non-admin target with correct password", func(t *testing.T) {
		req := update("Bobby", models.RoleUser)
		newPassword := "rotated"
		req.Password = &newPassword

		got, err := env.users.UpdateUser(ctx, member.ID, req, "member-pw")
		require.NoError(t, err)
		assert.Equal(t, "Bobby", got.Name)

		var stored models.User
		require.NoError(t, env.db.First(&stored, member.ID).Error)
		assert.True(t, utils.CheckPassword(stored.Password, "rotated"))
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := env.users.UpdateUser(ctx, 999, update("Ghost", models.RoleAdmin), "")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("role is required", func(t *testing.T) {
		_, err := env.users.UpdateUser(ctx, admin.ID, update("Anna", ""), "")
		var verrs ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "Ann", models.RoleAdmin, "pw")
	idle := env.createUser(t, "Idle", models.RoleUser, "pw")
	env.createStudent(t, admin.ID, CreateStudentRequest{Name: "Bob", Lab: "L1", UserID: admin.ID})

	t.Run("missing user leaves table unchanged", func(t *testing.T) {
		before := env.count(t, &models.User{})
		err := env.users.DeleteUser(ctx, 999)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Equal(t, before, env.count(t, &models.User{}))
	})

	t.Run("owner of students is restricted", func(t *testing.T) {
		err := env.users.DeleteUser(ctx, admin.ID)
		assert.ErrorIs(t, err, ErrUserHasStudents)
	})

	t.Run("deletes user", func(t *testing.T) {
		require.NoError(t, env.users.DeleteUser(ctx, idle.ID))

		_, err := env.users.GetUser(ctx, idle.ID)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Len(t, env.publisher.EventsOfType(events.UserDeleted), 1)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		users, err := env.users.ListUsers(ctx, models.Pagination{Skip: 0, Limit: 15})
		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})

	for _, name := range []string{"a", "b", "c"} {
		env.createUser(t, name, models.RoleUser, "pw")
	}

	tests := []struct {
		name  string
		page  models.Pagination
		names []string
	}{
		{"first page", models.Pagination{Skip: 0, Limit: 2}, []string{"a", "b"}},
		{"second page", models.Pagination{Skip: 2, Limit: 2}, []string{"c"}},
		{"default limit", models.Pagination{}, []string{"a", "b", "c"}},
		{"negative skip", models.Pagination{Skip: -5, Limit: 1}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := env.users.ListUsers(ctx, tt.page)
			require.NoError(t, err)

			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestUserService_Cache(t *testing.T) {
	env := newTestEnv(t, withRedis())
	ctx := context.Background()

	user := env.createUser(t, "Ann", models.RoleAdmin, "pw")

	_, err := env.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, env.redis.Exists("user:id:1"))

	cached, err := env.redis.Get("user:id:1")
	require.NoError(t, err)
	assert.NotContains(t, cached, "password")

	_, err = env.users.UpdateUser(ctx, user.ID, &UpdateUserRequest{Name: "Anna", Login: "anna", Phone: "1", Role: models.RoleAdmin}, "")
	require.NoError(t, err)
	assert.False(t, env.redis.Exists("user:id:1"))

	got, err := env.users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.Name)
}
