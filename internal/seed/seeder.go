// Package seed fills the database with synthetic users, courses and students.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/school-records-service/internal/models"
	"github.com/SAP-F-2025/school-records-service/internal/repositories"
	"github.com/SAP-F-2025/school-records-service/internal/utils"
	"github.com/SAP-F-2025/school-records-service/pkg"
)

const (
	minCoursesPerStudent = 1
	maxCoursesPerStudent = 3
)

var (
	ErrNoUsers   = errors.New("no users to own students")
	ErrNoCourses = errors.New("no courses to enroll students in")
)

type Config struct {
	Users    int
	Courses  int
	Students int

	// Seed makes a run reproducible. Zero picks a random seed.
	Seed     uint64
	HashCost int
}

func DefaultConfig() Config {
	return Config{
		Users:    10,
		Courses:  5,
		Students: 20,
		HashCost: utils.BcryptCost,
	}
}

// Result holds the ids created by one run.
type Result struct {
	UserIDs    []uint
	CourseIDs  []uint
	StudentIDs []uint
}

type Seeder struct {
	db     *gorm.DB
	repo   repositories.Repository
	logger *slog.Logger
	faker  *gofakeit.Faker
	cfg    Config
}

func New(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, cfg Config) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		db:     db,
		repo:   repo,
		logger: logger.With("component", "seeder"),
		faker:  gofakeit.New(cfg.Seed),
		cfg:    cfg,
	}
}

// Run migrates the schema and inserts users, courses and students in that
// order. Each entity type is committed in its own transaction, so a failure
// leaves earlier types in place and rolls back the failing one entirely.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	if err := pkg.Migrate(s.db); err != nil {
		return nil, err
	}

	result := &Result{}
	var err error

	if result.UserIDs, err = s.seedUsers(ctx); err != nil {
		return result, fmt.Errorf("failed to seed users: %w", err)
	}
	s.logger.Info("Users seeded", "count", len(result.UserIDs))

	if result.CourseIDs, err = s.seedCourses(ctx); err != nil {
		return result, fmt.Errorf("failed to seed courses: %w", err)
	}
	s.logger.Info("Courses seeded", "count", len(result.CourseIDs))

	if result.StudentIDs, err = s.seedStudents(ctx); err != nil {
		return result, fmt.Errorf("failed to seed students: %w", err)
	}
	s.logger.Info("Students seeded", "count", len(result.StudentIDs))

	return result, nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]uint, error) {
	ids := make([]uint, 0, s.cfg.Users)
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		for i := 0; i < s.cfg.Users; i++ {
			hashed, err := utils.HashPasswordWithCost(s.faker.Password(true, true, true, false, false, 12), s.cfg.HashCost)
			if err != nil {
				return err
			}
			user := &models.User{
				Name:     s.faker.Name(),
				Login:    s.faker.Username(),
				Password: hashed,
				Phone:    s.faker.Phone(),
				Role:     models.UserRole(s.faker.RandomString([]string{string(models.RoleAdmin), string(models.RoleUser)})),
			}
			if err := s.repo.User().Create(ctx, tx, user); err != nil {
				return err
			}
			ids = append(ids, user.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Seeder) seedCourses(ctx context.Context) ([]uint, error) {
	ids := make([]uint, 0, s.cfg.Courses)
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		for i := 0; i < s.cfg.Courses; i++ {
			course := &models.Course{
				Title: s.faker.HackerAdjective() + " " + s.faker.HackerNoun(),
			}
			if err := s.repo.Course().Create(ctx, tx, course); err != nil {
				return err
			}
			ids = append(ids, course.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Seeder) seedStudents(ctx context.Context) ([]uint, error) {
	if s.cfg.Students <= 0 {
		return nil, nil
	}

	ids := make([]uint, 0, s.cfg.Students)
	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		// Existing rows count too, so students can be added to a seeded database.
		var userIDs, courseIDs []uint
		if err := tx.Model(&models.User{}).Order("id").Pluck("id", &userIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Course{}).Order("id").Pluck("id", &courseIDs).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return ErrNoUsers
		}
		if len(courseIDs) == 0 {
			return ErrNoCourses
		}

		for i := 0; i < s.cfg.Students; i++ {
			courses, err := s.repo.Course().GetByIDs(ctx, tx, s.pickCourses(courseIDs))
			if err != nil {
				return err
			}
			student := &models.Student{
				Name:    s.faker.Name(),
				Lab:     "Lab " + strconv.Itoa(s.faker.Number(1, 20)),
				UserID:  userIDs[s.faker.Number(0, len(userIDs)-1)],
				Courses: courses,
			}
			if err := s.repo.Student().Create(ctx, tx, student); err != nil {
				return err
			}
			ids = append(ids, student.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// pickCourses returns between one and three distinct ids from pool.
func (s *Seeder) pickCourses(pool []uint) []uint {
	n := s.faker.Number(minCoursesPerStudent, maxCoursesPerStudent)
	if n > len(pool) {
		n = len(pool)
	}

	shuffled := make([]uint, len(pool))
	copy(shuffled, pool)
	for i := 0; i < n; i++ {
		j := s.faker.Number(i, len(shuffled)-1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}
