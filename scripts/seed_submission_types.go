package main

import (
	"log"

	"go.uber.org/zap"

	"alfredoptarigan/submission-validator/internal/config"
	applog "alfredoptarigan/submission-validator/internal/logger"
	"alfredoptarigan/submission-validator/internal/models"
	"alfredoptarigan/submission-validator/internal/repositories"
	"alfredoptarigan/submission-validator/internal/services"
)

// Writes the built-in submission types to Postgres so operators can edit
// the rules as data. Existing rows are overwritten.
func main() {
	cfg := config.Load()

	zlog, err := applog.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("🚀 Starting submission type seeding...")

	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	repo := repositories.NewSubmissionTypeRepository(db)

	profiles := services.DefaultProfiles()
	if _, err := services.NewRegistry(profiles); err != nil {
		zlog.Fatal("❌ Built-in submission types are inconsistent", zap.Error(err))
	}

	successCount := 0
	for _, p := range profiles {
		zlog.Info("📄 Seeding submission type", zap.String("key", p.Key))

		if err := repo.Upsert(models.NewSubmissionTypeFromProfile(p)); err != nil {
			zlog.Error("❌ Failed to seed submission type", zap.String("key", p.Key), zap.Error(err))
			continue
		}
		successCount++
	}

	zlog.Info("✅ Seeding completed",
		zap.Int("seeded", successCount),
		zap.Int("total", len(profiles)),
	)
}
