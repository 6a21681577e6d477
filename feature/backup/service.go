package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"time"

	"dormitory-manager/core/storage"
	"dormitory-manager/feature/dormitory"
	"dormitory-manager/feature/persistence/flatfile"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Latest selects the newest backup in Restore.
const Latest = "latest"

// ErrNoBackups is returned when Latest is requested from an empty bucket.
var ErrNoBackups = errors.New("no backups found")

// Service uploads and restores dormitory backups.
type Service struct {
	client storage.Client
	cfg    storage.Config
	dorm   *dormitory.Service
	files  *flatfile.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a backup service. files may be nil when the state lives
// in a database; the raw data files are then not archived.
func NewService(client storage.Client, cfg storage.Config, dorm *dormitory.Service, files *flatfile.Store, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		cfg:    cfg,
		dorm:   dorm,
		files:  files,
		logger: logger,
		now:    time.Now,
	}
}

// Backup uploads the current state under a new stamp and prunes old backups.
func (s *Service) Backup(ctx context.Context) (*Manifest, error) {
	created, err := storage.EnsureBucket(ctx, s.client, s.cfg.Bucket, s.cfg.Region)
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("Created backup bucket", zap.String("bucket", s.cfg.Bucket))
	}

	now := s.now()
	snap := s.dorm.Engine().Snapshot()
	m := &Manifest{
		Stamp:     now.UTC().Format(StampLayout),
		CreatedAt: now,
		Rooms:     len(snap.Rooms),
		Dormers:   len(snap.Dormers),
		Payments:  len(snap.Payments),
		Objects:   []Object{},
	}
	if snap.Dormitory != nil {
		m.Dormitory = snap.Dormitory.Name
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	obj, err := s.put(ctx, m.Stamp, SnapshotObject, data, "application/json")
	if err != nil {
		return nil, err
	}
	m.Objects = append(m.Objects, obj)

	if s.files != nil {
		for _, name := range s.files.Files().All() {
			raw, err := os.ReadFile(s.files.Path(name))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", name, err)
			}
			obj, err := s.put(ctx, m.Stamp, filesFolder+"/"+name, raw, "text/plain")
			if err != nil {
				return nil, err
			}
			m.Objects = append(m.Objects, obj)
		}
	}

	data, err = json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if _, err := s.put(ctx, m.Stamp, ManifestObject, data, "application/json"); err != nil {
		return nil, err
	}
	s.logger.Info("Backup uploaded",
		zap.String("stamp", m.Stamp),
		zap.Int("objects", len(m.Objects)+1))

	if _, err := s.Prune(ctx); err != nil {
		s.logger.Warn("Pruning old backups failed", zap.Error(err))
	}
	return m, nil
}

func (s *Service) put(ctx context.Context, stamp, name string, data []byte, contentType string) (Object, error) {
	key := objectKey(s.cfg.Prefix, stamp, name)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return Object{Key: key, Size: int64(len(data))}, nil
}

// List returns the backup stamps, newest first.
func (s *Service) List(ctx context.Context) ([]string, error) {
	root := folder(s.cfg.Prefix)
	stamps := []string{}
	for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{Prefix: root}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list backups: %w", obj.Err)
		}
		if stamp, ok := parseStamp(root, obj.Key); ok {
			stamps = append(stamps, stamp)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(stamps)))
	return stamps, nil
}

// Manifest downloads the manifest of one backup.
func (s *Service) Manifest(ctx context.Context, stamp string) (*Manifest, error) {
	var m Manifest
	if err := s.download(ctx, stamp, ManifestObject, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Restore replaces the dormitory state with the backup's snapshot. stamp may
// be Latest. Records dropped while restoring are returned as warnings.
func (s *Service) Restore(ctx context.Context, stamp string) (string, []error, error) {
	if stamp == Latest {
		stamps, err := s.List(ctx)
		if err != nil {
			return "", nil, err
		}
		if len(stamps) == 0 {
			return "", nil, ErrNoBackups
		}
		stamp = stamps[0]
	}

	var snap dormitory.Snapshot
	if err := s.download(ctx, stamp, SnapshotObject, &snap); err != nil {
		return stamp, nil, err
	}

	warnings, err := s.dorm.Import(ctx, snap)
	if err != nil {
		return stamp, warnings, err
	}
	s.logger.Info("Backup restored", zap.String("stamp", stamp), zap.Int("warnings", len(warnings)))
	return stamp, warnings, nil
}

func (s *Service) download(ctx context.Context, stamp, name string, v any) error {
	key := objectKey(s.cfg.Prefix, stamp, name)
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// Prune removes every backup beyond the newest Keep. It returns the removed
// stamps.
func (s *Service) Prune(ctx context.Context) ([]string, error) {
	if s.cfg.Keep <= 0 {
		return nil, nil
	}
	stamps, err := s.List(ctx)
	if err != nil || len(stamps) <= s.cfg.Keep {
		return nil, err
	}

	var removed []string
	for _, stamp := range stamps[s.cfg.Keep:] {
		opts := minio.ListObjectsOptions{Prefix: folder(s.cfg.Prefix, stamp), Recursive: true}
		for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, opts) {
			if obj.Err != nil {
				return removed, obj.Err
			}
			if err := s.client.RemoveObject(ctx, s.cfg.Bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
				return removed, fmt.Errorf("failed to delete %s: %w", obj.Key, err)
			}
		}
		removed = append(removed, stamp)
		s.logger.Info("Pruned backup", zap.String("stamp", stamp))
	}
	return removed, nil
}
