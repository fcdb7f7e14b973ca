package migration

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/storelens/storelens/internal/config"
	"github.com/storelens/storelens/internal/seed"
)

// Module applies schema migrations at startup when the db backend is active.
var Module = fx.Module("migration",
	fx.Invoke(func(db *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType != "postgres" {
			log.Named("migration").Info("skipping migrations", zap.String("db_type", cfg.DBType))
			return nil
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("get sql handle: %w", err)
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
		log.Named("migration").Info("migrations applied")

		if cfg.SeedDemoData {
			if err := seed.EnsureDemoDataset(db); err != nil {
				return err
			}
			log.Named("migration").Info("demo dataset ensured")
		}
		return nil
	}),
)
