package cmd

import (
	"context"
	"errors"
	"fmt"

	"dormitory-manager/core/config"
	"dormitory-manager/core/data"
	"dormitory-manager/core/database"
	"dormitory-manager/core/logger"
	"dormitory-manager/core/reconcile"
	"dormitory-manager/core/storage"
	"dormitory-manager/feature/backup"
	"dormitory-manager/feature/dormitory"
	"dormitory-manager/feature/integrity"
	"dormitory-manager/feature/persistence"
	"dormitory-manager/feature/persistence/flatfile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errStorageDisabled = errors.New("object storage is disabled, set STORAGE_ENABLED=true")

// app is the wiring shared by every command.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	repo   dormitory.Repository
	svc    *dormitory.Service
	occ    *reconcile.Spec
}

// bootstrap loads the configuration, opens the repository and reads the
// persisted state into a fresh engine.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Data.IsValidBackend() {
		return nil, fmt.Errorf("unknown data backend %q", cfg.Data.Backend)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	var db *gorm.DB
	if cfg.Data.Backend == data.BackendDatabase {
		if db, err = database.Connect(cfg.Database); err != nil {
			return nil, fmt.Errorf("database connection required: %w", err)
		}
		logg = logg.With(zap.String("driver", cfg.Database.Driver))
	}

	repo, err := persistence.Open(cfg.Data, db, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	svc := dormitory.NewService(dormitory.NewEngine(), repo, logg)
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}

	occ := &reconcile.Spec{
		Adapter:  dormitory.NewReconcileAdapter(repo, svc),
		CacheTTL: cfg.Server.OccupancyCacheTTL(),
	}
	// The cache is process wide and keyed by adapter name.
	reconcile.InvalidateCache(occ)
	svc.OnCommit(func(string) { reconcile.InvalidateCache(occ) })

	return &app{cfg: cfg, logger: logg, db: db, repo: repo, svc: svc, occ: occ}, nil
}

func (a *app) close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.logger.Sync()
}

// files returns the flat file store, or nil on the database backend.
func (a *app) files() *flatfile.Store {
	store, _ := a.repo.(*flatfile.Store)
	return store
}

// occupancy is the reconcile spec over the repository. Its cached indices are
// dropped whenever the service commits a change.
func (a *app) occupancy() *reconcile.Spec {
	return a.occ
}

// storage returns the backup storage client, or nil when storage is disabled.
func (a *app) storage() (storage.Client, error) {
	if !a.cfg.Storage.Enabled {
		return nil, nil
	}
	client, err := storage.NewClient(a.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return client, nil
}

func (a *app) integrity() (*integrity.Service, error) {
	client, err := a.storage()
	if err != nil {
		return nil, err
	}
	return integrity.NewService(integrity.Options{
		Files:     a.files(),
		DB:        a.db,
		Client:    client,
		Bucket:    a.cfg.Storage.Bucket,
		Prefix:    a.cfg.Storage.Prefix,
		Region:    a.cfg.Storage.Region,
		Occupancy: a.occupancy(),
	}, a.logger), nil
}

// backup returns the backup service. It fails when storage is disabled.
func (a *app) backup() (*backup.Service, error) {
	client, err := a.storage()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errStorageDisabled
	}
	return backup.NewService(client, a.cfg.Storage, a.svc, a.files(), a.logger), nil
}
