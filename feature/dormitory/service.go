package dormitory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dormitory-manager/feature/dormitory/models"

	"go.uber.org/zap"
)

// Service couples the engine with a repository. Every successful mutation is
// flushed before it returns; if the flush fails the in-memory state is rolled
// back so memory and storage never disagree.
type Service struct {
	engine *Engine
	repo   Repository
	logger *zap.Logger

	mu      sync.Mutex
	commits []func(op string)
}

// NewService creates a new dormitory service.
func NewService(engine *Engine, repo Repository, logger *zap.Logger) *Service {
	return &Service{
		engine: engine,
		repo:   repo,
		logger: logger,
	}
}

// Engine exposes the underlying engine for read-only views.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Load reads the persisted state into the engine. Skipped records are logged.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := LoadSnapshot(ctx, s.repo)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	for _, w := range s.engine.Restore(snap) {
		s.logger.Warn("Skipping record", zap.Error(w))
	}
	s.logger.Debug("State loaded",
		zap.Int("rooms", len(snap.Rooms)),
		zap.Int("dormers", len(snap.Dormers)),
		zap.Int("payments", len(snap.Payments)))
	return nil
}

// IsConfigured reports whether setup has been done.
func (s *Service) IsConfigured() bool {
	return s.engine.Dormitory() != nil
}

// Setup stores the dormitory and generates its rooms.
func (s *Service) Setup(ctx context.Context, d models.Dormitory) error {
	return s.mutate(ctx, "setup", func() error {
		return s.engine.Initialize(d)
	}, CollectionDormitory, CollectionRooms)
}

// AssignRoom assigns a new dormer to a vacant room.
func (s *Service) AssignRoom(ctx context.Context, room string, details models.DormerDetails, balance float64, entry time.Time) (models.Dormer, error) {
	var dormer models.Dormer
	err := s.mutate(ctx, "assign room", func() (err error) {
		if err := s.requireSetup(); err != nil {
			return err
		}
		dormer, err = s.engine.AssignRoom(room, details, balance, entry)
		return err
	}, CollectionRooms, CollectionDormers)
	return dormer, err
}

// VacateRoom removes the dormer from an occupied room.
func (s *Service) VacateRoom(ctx context.Context, room string) error {
	return s.mutate(ctx, "vacate room", func() error {
		return s.engine.VacateRoom(room)
	}, CollectionRooms, CollectionDormers)
}

// ApplyPayment records a payment against the current balance.
func (s *Service) ApplyPayment(ctx context.Context, room string, amount float64) (*Receipt, error) {
	var receipt *Receipt
	err := s.mutate(ctx, "apply payment", func() (err error) {
		receipt, err = s.engine.ApplyPayment(room, amount)
		return err
	}, CollectionDormers)
	return receipt, err
}

// ChargeNextMonth records next month's charge for the room.
func (s *Service) ChargeNextMonth(ctx context.Context, room string, amount float64) (*ChargeResult, error) {
	var result *ChargeResult
	err := s.mutate(ctx, "charge next month", func() (err error) {
		result, err = s.engine.ChargeNextMonth(room, amount)
		return err
	}, CollectionDormers, CollectionPayments)
	return result, err
}

// MarkPaymentPaid flags a monthly record as settled.
func (s *Service) MarkPaymentPaid(ctx context.Context, room, month string) error {
	return s.mutate(ctx, "mark payment paid", func() error {
		return s.engine.MarkPaymentPaid(room, month)
	}, CollectionPayments)
}

// UpdateDormer overwrites non-empty fields of the dormer in room.
func (s *Service) UpdateDormer(ctx context.Context, room string, update models.DormerUpdate) error {
	return s.mutate(ctx, "update dormer", func() error {
		return s.engine.UpdateDormerFields(room, update)
	}, CollectionDormers)
}

// RepairRooms applies room status repairs and persists the rooms collection.
// It is used by the occupancy reconcile.
func (s *Service) RepairRooms(ctx context.Context, rooms []string) (int, error) {
	changed := 0
	err := s.mutate(ctx, "repair rooms", func() error {
		for _, r := range rooms {
			if s.engine.RepairRoom(r) {
				changed++
			}
		}
		return nil
	}, CollectionRooms)
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// Import replaces the whole state with snap and rewrites every collection.
// Records dropped while restoring are returned as warnings.
func (s *Service) Import(ctx context.Context, snap Snapshot) ([]error, error) {
	if snap.Dormitory == nil {
		return nil, fmt.Errorf("%w: snapshot has no dormitory setup", ErrInvalidDetails)
	}
	var warnings []error
	err := s.mutate(ctx, "import", func() error {
		warnings = s.engine.Restore(snap)
		return nil
	})
	return warnings, err
}

// OnCommit registers fn to run after every change that reached the
// repository. Register hooks before the service is shared.
func (s *Service) OnCommit(fn func(op string)) {
	s.mu.Lock()
	s.commits = append(s.commits, fn)
	s.mu.Unlock()
}

func (s *Service) committed(op string) {
	for _, fn := range s.commits {
		fn(op)
	}
}

// Reset erases all persisted state and empties the engine.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Reset(ctx); err != nil {
		s.logger.Error("Reset failed", zap.Error(err))
		return fmt.Errorf("reset: %w", err)
	}
	s.engine.Reset()
	s.logger.Info("All records erased")
	s.committed("reset")
	return nil
}

func (s *Service) requireSetup() error {
	if s.engine.Dormitory() == nil {
		return ErrNotConfigured
	}
	return nil
}

// mutate runs fn, then writes the named collections. On a write failure the
// engine is restored to its state before fn ran.
func (s *Service) mutate(ctx context.Context, op string, fn func() error, collections ...Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.engine.Snapshot()
	if err := fn(); err != nil {
		s.logger.Debug("Operation rejected", zap.String("op", op), zap.Error(err))
		return err
	}

	if err := SaveSnapshot(ctx, s.repo, s.engine.Snapshot(), collections...); err != nil {
		s.engine.Restore(before)
		s.logger.Error("Persist failed, changes rolled back", zap.String("op", op), zap.Error(err))
		// Collections written before the failure still hold the new state.
		if rerr := SaveSnapshot(ctx, s.repo, before, collections...); rerr != nil {
			s.logger.Error("Rewriting previous state failed", zap.String("op", op), zap.Error(rerr))
		}
		if !errors.Is(err, ErrIOFailure) {
			err = fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("Operation committed", zap.String("op", op))
	s.committed(op)
	return nil
}
