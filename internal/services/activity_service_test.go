package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/school-records-service/internal/models"
)

func TestActivityService_ListActivity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewActivityService(env.deps)

	admin := env.createUser(t, "Ann", models.RoleAdmin, "pw")
	course := env.createCourse(t, "Algo")
	student := env.createStudent(t, admin.ID, CreateStudentRequest{Name: "Bob", Lab: "L1", UserID: admin.ID, CourseIDs: []uint{course.ID}})

	t.Run("all entries oldest first", func(t *testing.T) {
		logs, err := svc.ListActivity(ctx, models.Pagination{}, nil)
		require.NoError(t, err)
		require.Len(t, logs, 3)
		assert.Equal(t, models.EntityUser, logs[0].Entity)
		assert.Equal(t, models.EntityCourse, logs[1].Entity)
		assert.Equal(t, models.EntityStudent, logs[2].Entity)
	})

	t.Run("filter by entity", func(t *testing.T) {
		entity := models.EntityStudent
		logs, err := svc.ListActivity(ctx, models.Pagination{}, &entity)
		require.NoError(t, err)
		require.Len(t, logs, 1)

		entry := logs[0]
		assert.Equal(t, student.ID, entry.EntityID)
		assert.Equal(t, models.ActionCreated, entry.Action)
		require.NotNil(t, entry.ActorID)
		assert.Equal(t, admin.ID, *entry.ActorID)

		var payload models.Student
		require.NoError(t, json.Unmarshal(entry.Payload, &payload))
		assert.Equal(t, "Bob", payload.Name)
		assert.Equal(t, []uint{course.ID}, payload.CourseIDs())
	})

	t.Run("user payload has no password", func(t *testing.T) {
		entity := models.EntityUser
		logs, err := svc.ListActivity(ctx, models.Pagination{}, &entity)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.NotContains(t, string(logs[0].Payload), "password")
	})

	t.Run("unknown entity", func(t *testing.T) {
		entity := models.ActivityEntity("grade")
		_, err := svc.ListActivity(ctx, models.Pagination{}, &entity)

		var verrs ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})
}
