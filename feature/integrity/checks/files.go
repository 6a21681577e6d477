package checks

import (
	"context"

	"dormitory-manager/feature/persistence/flatfile"

	"go.uber.org/zap"
)

// FilesReport summarizes the flat data files.
type FilesReport struct {
	Dir       string                `json:"dir"`
	Healthy   bool                  `json:"healthy"`
	Missing   []string              `json:"missing"`
	Malformed int                   `json:"malformed"`
	Files     []flatfile.FileReport `json:"files"`
}

// CheckFiles decodes every data file under store and reports missing files
// and malformed lines.
func CheckFiles(ctx context.Context, store *flatfile.Store) (*FilesReport, error) {
	files, err := store.Inspect(ctx)
	if err != nil {
		return nil, err
	}

	report := &FilesReport{
		Dir:     store.Dir(),
		Healthy: true,
		Missing: []string{},
		Files:   files,
	}
	for _, f := range files {
		if !f.Exists {
			report.Missing = append(report.Missing, f.Name)
		}
		report.Malformed += len(f.Malformed)
		if !f.Healthy() {
			report.Healthy = false
		}
	}
	return report, nil
}

// FixFiles creates the missing data files empty. Malformed lines are left in
// place; the next save of the collection drops them.
func FixFiles(store *flatfile.Store, logger *zap.Logger) ([]string, error) {
	created, err := store.EnsureFiles()
	for _, name := range created {
		logger.Info("Created missing data file", zap.String("file", name))
	}
	return created, err
}
