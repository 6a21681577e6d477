package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"dormitory-manager/feature/dormitory"
	"dormitory-manager/feature/dormitory/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const batchSize = 200

// Store implements dormitory.Repository on gorm.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ dormitory.Repository = (*Store)(nil)

// New creates a store on db.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the four tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(Schema()...)
}

// LoadDormitory returns the setup row, or nil when none exists.
func (s *Store) LoadDormitory(ctx context.Context) (*models.Dormitory, error) {
	var row DormitoryRow
	err := s.db.WithContext(ctx).Order("id").Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, ioErr("load dormitory", err)
	}
	return &models.Dormitory{
		Name:          row.Name,
		Address:       row.Address,
		Floors:        row.Floors,
		RoomsPerFloor: row.RoomsPerFloor,
	}, nil
}

// SaveDormitory replaces the setup row.
func (s *Store) SaveDormitory(ctx context.Context, d *models.Dormitory) error {
	row := DormitoryRow{ID: 1, Name: d.Name, Address: d.Address, Floors: d.Floors, RoomsPerFloor: d.RoomsPerFloor}
	return s.written("dormitories", replace(ctx, s.db, &DormitoryRow{}, []DormitoryRow{row}))
}

// LoadRooms returns every room row.
func (s *Store) LoadRooms(ctx context.Context) ([]models.Room, error) {
	var rows []RoomRow
	if err := s.db.WithContext(ctx).Order("number").Find(&rows).Error; err != nil {
		return nil, ioErr("load rooms", err)
	}

	rooms := make([]models.Room, 0, len(rows))
	for _, r := range rows {
		status, err := models.ParseRoomStatus(r.Status)
		if err != nil {
			s.logger.Warn("Skipping malformed record",
				zap.String("table", "rooms"), zap.String("room", r.Number), zap.Error(err))
			continue
		}
		rooms = append(rooms, models.Room{Number: r.Number, Status: status})
	}
	return rooms, nil
}

// SaveRooms replaces the rooms table.
func (s *Store) SaveRooms(ctx context.Context, rooms []models.Room) error {
	rows := make([]RoomRow, 0, len(rooms))
	for _, r := range rooms {
		rows = append(rows, RoomRow{Number: r.Number, Status: string(r.Status)})
	}
	return s.written("rooms", replace(ctx, s.db, &RoomRow{}, rows))
}

// LoadDormers returns every dormer row.
func (s *Store) LoadDormers(ctx context.Context) ([]models.Dormer, error) {
	var rows []DormerRow
	if err := s.db.WithContext(ctx).Order("room_number").Find(&rows).Error; err != nil {
		return nil, ioErr("load dormers", err)
	}
	dormers := make([]models.Dormer, 0, len(rows))
	for _, r := range rows {
		dormers = append(dormers, r.toModel())
	}
	return dormers, nil
}

// SaveDormers replaces the dormers table.
func (s *Store) SaveDormers(ctx context.Context, dormers []models.Dormer) error {
	rows := make([]DormerRow, 0, len(dormers))
	for _, d := range dormers {
		rows = append(rows, toDormerRow(d))
	}
	return s.written("dormers", replace(ctx, s.db, &DormerRow{}, rows))
}

// LoadPayments returns every payment row.
func (s *Store) LoadPayments(ctx context.Context) ([]models.Payment, error) {
	var rows []PaymentRow
	if err := s.db.WithContext(ctx).Order("room_number").Order("due_date").Find(&rows).Error; err != nil {
		return nil, ioErr("load payments", err)
	}
	payments := make([]models.Payment, 0, len(rows))
	for _, r := range rows {
		payments = append(payments, r.toModel())
	}
	return payments, nil
}

// SavePayments replaces the payments table.
func (s *Store) SavePayments(ctx context.Context, payments []models.Payment) error {
	rows := make([]PaymentRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, toPaymentRow(p))
	}
	return s.written("payments", replace(ctx, s.db, &PaymentRow{}, rows))
}

// Reset empties all four tables in one transaction.
func (s *Store) Reset(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&PaymentRow{}, &DormerRow{}, &RoomRow{}, &DormitoryRow{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ioErr("reset", err)
	}
	s.logger.Info("Database tables reset")
	return nil
}

// replace deletes every row of model's table and inserts rows, atomically.
func replace[T any](ctx context.Context, db *gorm.DB, model any, rows []T) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, batchSize).Error
	})
}

// written logs and wraps a failed table write.
func (s *Store) written(table string, err error) error {
	if err != nil {
		s.logger.Error("Table write failed", zap.String("table", table), zap.Error(err))
		return ioErr("save "+table, err)
	}
	return nil
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", dormitory.ErrIOFailure, op, err)
}
