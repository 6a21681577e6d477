package persistence

import (
	"fmt"

	"dormitory-manager/core/data"
	"dormitory-manager/feature/dormitory"
	"dormitory-manager/feature/persistence/flatfile"
	"dormitory-manager/feature/persistence/sqlstore"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Open builds the repository selected by cfg.Backend. db is only used by the
// database backend and may be nil otherwise.
func Open(cfg data.Config, db *gorm.DB, logger *zap.Logger) (dormitory.Repository, error) {
	switch cfg.Backend {
	case data.BackendFiles, "":
		return flatfile.New(cfg.Dir, Files(cfg), logger), nil
	case data.BackendDatabase:
		if db == nil {
			return nil, fmt.Errorf("backend %q requires a database connection", cfg.Backend)
		}
		store := sqlstore.New(db, logger)
		if err := store.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.Backend)
	}
}

// Files maps the configured file names onto the flat file layout.
func Files(cfg data.Config) flatfile.Files {
	return flatfile.Files{
		Setup:    cfg.SetupFile,
		Rooms:    cfg.RoomsFile,
		Dormers:  cfg.DormersFile,
		Payments: cfg.PaymentsFile,
	}
}
