package integrity

import (
	"context"
	"errors"

	"dormitory-manager/core/reconcile"
	"dormitory-manager/core/storage"
	"dormitory-manager/feature/integrity/checks"
	"dormitory-manager/feature/persistence/flatfile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSkipped is returned by checks whose backing resource is not configured.
var ErrSkipped = errors.New("check not configured")

// Section statuses.
const (
	StatusOK      = "ok"
	StatusIssues  = "issues"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Options wires the resources the checks inspect. Nil resources skip their
// check.
type Options struct {
	Files     *flatfile.Store
	DB        *gorm.DB
	Client    storage.Client
	Bucket    string
	Prefix    string
	Region    string
	Occupancy *reconcile.Spec
}

// Service handles integrity checks.
type Service struct {
	opts   Options
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(opts Options, logger *zap.Logger) *Service {
	return &Service{opts: opts, logger: logger}
}

// CheckFiles inspects the flat data files.
func (s *Service) CheckFiles(ctx context.Context) (*checks.FilesReport, error) {
	if s.opts.Files == nil {
		return nil, ErrSkipped
	}
	return checks.CheckFiles(ctx, s.opts.Files)
}

// FixFiles creates the missing data files.
func (s *Service) FixFiles() ([]string, error) {
	if s.opts.Files == nil {
		return nil, ErrSkipped
	}
	return checks.FixFiles(s.opts.Files, s.logger)
}

// CheckServer compares the database schema with the expected tables.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	if s.opts.DB == nil {
		return nil, ErrSkipped
	}
	return checks.CheckServerIntegrity(s.opts.DB)
}

// CheckStructure returns the missing backup folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.opts.Client == nil {
		return nil, ErrSkipped
	}
	return checks.CheckStructure(ctx, s.opts.Client, s.opts.Bucket, s.opts.Prefix)
}

// RequiredFolders lists the backup folders the storage check expects.
func (s *Service) RequiredFolders() []string {
	return checks.RequiredFolders(s.opts.Prefix)
}

// FixStructure creates the bucket and the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.opts.Client == nil {
		return ErrSkipped
	}
	return checks.FixStructure(ctx, s.opts.Client, s.opts.Bucket, s.opts.Region, s.logger, missing)
}

// CheckOccupancy reconciles room statuses with the dormers. With fix set the
// repairs are applied and the number of repaired rooms is returned.
func (s *Service) CheckOccupancy(ctx context.Context, fix bool) (*reconcile.ReconcilePlan, int, error) {
	if s.opts.Occupancy == nil {
		return nil, 0, ErrSkipped
	}
	opts := reconcile.ReconcileOptions{DoFix: fix, Confirmed: fix}
	return reconcile.ReconcileAndApply(ctx, s.opts.Occupancy, opts)
}

// Section is the outcome of one check inside a Report.
type Section struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Report combines every check.
type Report struct {
	Healthy   bool    `json:"healthy"`
	Files     Section `json:"files"`
	Server    Section `json:"server"`
	Storage   Section `json:"storage"`
	Occupancy Section `json:"occupancy"`
}

// Run performs all checks without fixing anything.
func (s *Service) Run(ctx context.Context) *Report {
	report := &Report{}

	files, err := s.CheckFiles(ctx)
	report.Files = section(err, files, files != nil && files.Healthy)

	srv, err := s.CheckServer()
	report.Server = section(err, srv, srv != nil && srv.Matched)

	missing, err := s.CheckStructure(ctx)
	report.Storage = section(err, missingFolders(missing), len(missing) == 0)

	plan, _, err := s.CheckOccupancy(ctx, false)
	var summary any
	if plan != nil {
		summary = plan.Summary
	}
	report.Occupancy = section(err, summary, plan != nil && plan.Summary.Clean())

	report.Healthy = true
	for _, sec := range []Section{report.Files, report.Server, report.Storage, report.Occupancy} {
		if sec.Status == StatusIssues || sec.Status == StatusError {
			report.Healthy = false
		}
	}
	s.logger.Info("Integrity checks completed", zap.Bool("healthy", report.Healthy))
	return report
}

func section(err error, details any, clean bool) Section {
	switch {
	case errors.Is(err, ErrSkipped):
		return Section{Status: StatusSkipped}
	case err != nil:
		return Section{Status: StatusError, Error: err.Error()}
	case clean:
		return Section{Status: StatusOK, Details: details}
	default:
		return Section{Status: StatusIssues, Details: details}
	}
}

func missingFolders(missing []string) map[string][]string {
	if missing == nil {
		return nil
	}
	return map[string][]string{"missing": missing}
}
