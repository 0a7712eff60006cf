package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateUserCache drops the cached user and every cached user page.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userIDs ...uint) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, IDKey(id))
	}
	SafeDelete(ctx, cm.User, keys...)
	SafeInvalidatePattern(ctx, cm.User, "list:*")
}

// InvalidateEnrollmentCache drops every cached student and course entry.
// Enrollment changes show up on both sides, so both are cleared together.
func InvalidateEnrollmentCache(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Student, "*")
	SafeInvalidatePattern(ctx, cm.Course, "*")
}
