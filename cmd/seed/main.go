// Command seed fills the configured database with synthetic records.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/school-records-service/internal/config"
	"github.com/SAP-F-2025/school-records-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/school-records-service/internal/seed"
	"github.com/SAP-F-2025/school-records-service/pkg"
)

func main() {
	defaults := seed.DefaultConfig()

	users := flag.Int("users", defaults.Users, "number of users to create")
	courses := flag.Int("courses", defaults.Courses, "number of courses to create")
	students := flag.Int("students", defaults.Students, "number of students to create")
	randSeed := flag.Uint64("seed", 0, "random seed, 0 for a random run")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	seedCfg := seed.Config{
		Users:    *users,
		Courses:  *courses,
		Students: *students,
		Seed:     *randSeed,
		HashCost: cfg.PasswordHashCost,
	}
	if err := run(cfg, seedCfg, logger); err != nil {
		logger.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, seedCfg seed.Config, logger *slog.Logger) error {
	// The seeder migrates on its own.
	cfg.Database.AutoMigrate = false
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := seed.New(db, repo, logger, seedCfg).Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("Seeding completed",
		"users", len(result.UserIDs),
		"courses", len(result.CourseIDs),
		"students", len(result.StudentIDs),
	)
	return nil
}
