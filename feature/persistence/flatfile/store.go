package flatfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dormitory-manager/core/utils"
	"dormitory-manager/feature/dormitory"
	"dormitory-manager/feature/dormitory/models"

	"go.uber.org/zap"
)

// Files names the four data files inside the data directory.
type Files struct {
	Setup    string
	Rooms    string
	Dormers  string
	Payments string
}

// DefaultFiles are the historical file names.
var DefaultFiles = Files{
	Setup:    "setup.txt",
	Rooms:    "roomStatus.txt",
	Dormers:  "dormers.txt",
	Payments: "paymentStatus.txt",
}

// All returns the file names in load order.
func (f Files) All() []string {
	return []string{f.Setup, f.Rooms, f.Dormers, f.Payments}
}

const (
	roomFields    = 2
	dormerFields  = 10
	paymentFields = 5
)

// Store implements dormitory.Repository on flat files.
type Store struct {
	dir    string
	files  Files
	logger *zap.Logger
}

var _ dormitory.Repository = (*Store)(nil)

// New creates a store rooted at dir. Empty file names fall back to DefaultFiles.
func New(dir string, files Files, logger *zap.Logger) *Store {
	if files.Setup == "" {
		files.Setup = DefaultFiles.Setup
	}
	if files.Rooms == "" {
		files.Rooms = DefaultFiles.Rooms
	}
	if files.Dormers == "" {
		files.Dormers = DefaultFiles.Dormers
	}
	if files.Payments == "" {
		files.Payments = DefaultFiles.Payments
	}
	return &Store{dir: dir, files: files, logger: logger}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Files returns the configured file names.
func (s *Store) Files() Files {
	return s.files
}

// Path joins name onto the data directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// LoadDormitory reads the setup file. An empty or missing file means the
// dormitory has not been set up.
func (s *Store) LoadDormitory(ctx context.Context) (*models.Dormitory, error) {
	lines, err := s.readLines(s.files.Setup)
	if err != nil || len(lines) == 0 {
		return nil, err
	}
	if len(lines) < 4 {
		s.warn(&dormitory.RecordError{File: s.files.Setup, Line: len(lines), Reason: "expected 4 lines"})
		return nil, nil
	}
	for i, l := range lines[:4] {
		if l.overlong {
			s.warn(&dormitory.RecordError{File: s.files.Setup, Line: i + 1,
				Reason: fmt.Sprintf("line exceeds %d bytes", maxLineBytes)})
			return nil, nil
		}
	}

	floors, ferr := utils.ParseCount(lines[2].text)
	rooms, rerr := utils.ParseCount(lines[3].text)
	if ferr != nil || rerr != nil {
		s.warn(&dormitory.RecordError{File: s.files.Setup, Line: 3, Reason: "floors and rooms per floor must be whole numbers"})
		return nil, nil
	}

	return &models.Dormitory{
		Name:          lines[0].text,
		Address:       lines[1].text,
		Floors:        floors,
		RoomsPerFloor: rooms,
	}, nil
}

// SaveDormitory writes the setup file.
func (s *Store) SaveDormitory(ctx context.Context, d *models.Dormitory) error {
	lines := []string{
		clean(d.Name),
		clean(d.Address),
		strconv.Itoa(d.Floors),
		strconv.Itoa(d.RoomsPerFloor),
	}
	return s.writeLines(s.files.Setup, lines)
}

// LoadRooms reads the room status file.
func (s *Store) LoadRooms(ctx context.Context) ([]models.Room, error) {
	rooms := []models.Room{}
	err := s.eachRecord(s.files.Rooms, roomFields, func(parts []string) error {
		status, err := models.ParseRoomStatus(parts[1])
		if err != nil {
			return err
		}
		rooms = append(rooms, models.Room{Number: parts[0], Status: status})
		return nil
	})
	return rooms, err
}

// SaveRooms rewrites the room status file.
func (s *Store) SaveRooms(ctx context.Context, rooms []models.Room) error {
	lines := make([]string, 0, len(rooms))
	for _, r := range rooms {
		lines = append(lines, join(r.Number, string(r.Status)))
	}
	return s.writeLines(s.files.Rooms, lines)
}

// LoadDormers reads the dormers file.
func (s *Store) LoadDormers(ctx context.Context) ([]models.Dormer, error) {
	dormers := []models.Dormer{}
	err := s.eachRecord(s.files.Dormers, dormerFields, func(parts []string) error {
		d, err := decodeDormer(parts)
		if err != nil {
			return err
		}
		dormers = append(dormers, d)
		return nil
	})
	return dormers, err
}

// SaveDormers rewrites the dormers file.
func (s *Store) SaveDormers(ctx context.Context, dormers []models.Dormer) error {
	lines := make([]string, 0, len(dormers))
	for _, d := range dormers {
		lines = append(lines, encodeDormer(d))
	}
	return s.writeLines(s.files.Dormers, lines)
}

// LoadPayments reads the payments file.
func (s *Store) LoadPayments(ctx context.Context) ([]models.Payment, error) {
	payments := []models.Payment{}
	err := s.eachRecord(s.files.Payments, paymentFields, func(parts []string) error {
		p, err := decodePayment(parts)
		if err != nil {
			return err
		}
		payments = append(payments, p)
		return nil
	})
	return payments, err
}

// SavePayments rewrites the payments file.
func (s *Store) SavePayments(ctx context.Context, payments []models.Payment) error {
	lines := make([]string, 0, len(payments))
	for _, p := range payments {
		lines = append(lines, join(
			p.RoomNumber,
			utils.FormatAmountRaw(p.Amount),
			p.Month,
			utils.FormatBool(p.IsPaid),
			utils.FormatDate(p.DueDate),
		))
	}
	return s.writeLines(s.files.Payments, lines)
}

// Reset deletes the four files and recreates them empty.
func (s *Store) Reset(ctx context.Context) error {
	for _, name := range s.files.All() {
		if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: remove %s: %v", dormitory.ErrIOFailure, name, err)
		}
		if err := s.writeLines(name, nil); err != nil {
			return err
		}
	}
	s.logger.Info("Data files reset", zap.String("dir", s.dir))
	return nil
}

func decodeDormer(parts []string) (models.Dormer, error) {
	var d models.Dormer
	var err error

	if d.Birthday, err = parseOptionalDate(parts[5]); err != nil {
		return d, fmt.Errorf("birthday: %w", err)
	}
	payment, err := utils.ParseAmount(parts[8])
	if err != nil {
		return d, fmt.Errorf("payment: %w", err)
	}
	if d.EntryDate, err = utils.ParseDate(parts[9]); err != nil {
		return d, fmt.Errorf("entry date: %w", err)
	}

	d.RoomNumber = parts[0]
	d.UserID = parts[1]
	d.FirstName = parts[2]
	d.LastName = parts[3]
	d.Address = parts[4]
	d.Email = parts[6]
	d.Phone = parts[7]
	d.SetBalance(payment)
	return d, nil
}

func encodeDormer(d models.Dormer) string {
	birthday := ""
	if !d.Birthday.IsZero() {
		birthday = utils.FormatDate(d.Birthday)
	}
	return join(
		d.RoomNumber,
		d.UserID,
		d.FirstName,
		d.LastName,
		d.Address,
		birthday,
		d.Email,
		d.Phone,
		utils.FormatAmountRaw(d.RemainingBalance),
		utils.FormatDate(d.EntryDate),
	)
}

func decodePayment(parts []string) (models.Payment, error) {
	amount, err := utils.ParseAmount(parts[1])
	if err != nil {
		return models.Payment{}, fmt.Errorf("amount: %w", err)
	}
	paid, err := utils.ParseBool(parts[3])
	if err != nil {
		return models.Payment{}, fmt.Errorf("paid flag: %w", err)
	}
	due, err := utils.ParseDate(parts[4])
	if err != nil {
		return models.Payment{}, fmt.Errorf("due date: %w", err)
	}
	return models.Payment{
		RoomNumber: parts[0],
		Amount:     amount,
		Month:      parts[2],
		IsPaid:     paid,
		DueDate:    due,
	}, nil
}

func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return utils.ParseDate(s)
}

// eachRecord hands every decodable record of name to fn and logs the rest.
func (s *Store) eachRecord(name string, fields int, fn func(parts []string) error) error {
	_, bad, err := s.scan(name, fields, fn)
	for _, rec := range bad {
		s.warn(rec)
	}
	return err
}

// scan splits every non-empty line of name into fields and hands the ones
// with the expected field count to fn. It returns the number of accepted
// records and the rejected ones.
func (s *Store) scan(name string, fields int, fn func(parts []string) error) (int, []*dormitory.RecordError, error) {
	lines, err := s.readLines(name)
	if err != nil {
		return 0, nil, err
	}

	accepted := 0
	var bad []*dormitory.RecordError
	for i, l := range lines {
		if l.overlong {
			bad = append(bad, &dormitory.RecordError{File: name, Line: i + 1,
				Reason: fmt.Sprintf("line exceeds %d bytes", maxLineBytes)})
			continue
		}
		if strings.TrimSpace(l.text) == "" {
			continue
		}
		parts := strings.Split(l.text, ",")
		if len(parts) != fields {
			bad = append(bad, &dormitory.RecordError{File: name, Line: i + 1,
				Reason: fmt.Sprintf("expected %d fields, got %d", fields, len(parts))})
			continue
		}
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		if err := fn(parts); err != nil {
			bad = append(bad, &dormitory.RecordError{File: name, Line: i + 1, Reason: err.Error()})
			continue
		}
		accepted++
	}
	return accepted, bad, nil
}

// maxLineBytes bounds a single record. Longer lines are discarded and
// reported as malformed.
const maxLineBytes = 1 << 20

// line is one row of a data file.
type line struct {
	text     string
	overlong bool
}

// readLines returns the lines of name. A missing file yields no lines.
func (s *Store) readLines(name string) ([]line, error) {
	f, err := os.Open(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("Data file not found, starting empty", zap.String("file", name))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", dormitory.ErrIOFailure, name, err)
	}
	defer f.Close()

	var (
		lines []line
		buf   []byte
		long  bool
	)
	r := bufio.NewReader(f)
	for {
		chunk, more, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", dormitory.ErrIOFailure, name, err)
		}
		if !long {
			if len(buf)+len(chunk) > maxLineBytes {
				long, buf = true, buf[:0]
			} else {
				buf = append(buf, chunk...)
			}
		}
		if more {
			continue
		}
		lines = append(lines, line{text: strings.TrimRight(string(buf), "\r"), overlong: long})
		buf, long = buf[:0], false
	}
	return lines, nil
}

// writeLines replaces name with lines, one per row.
func (s *Store) writeLines(name string, lines []string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", dormitory.ErrIOFailure, s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", dormitory.ErrIOFailure, name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		_, _ = w.WriteString(line)
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", dormitory.ErrIOFailure, name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", dormitory.ErrIOFailure, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", dormitory.ErrIOFailure, name, err)
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		return fmt.Errorf("%w: replace %s: %v", dormitory.ErrIOFailure, name, err)
	}
	return nil
}

func (s *Store) warn(rec *dormitory.RecordError) {
	s.logger.Warn("Skipping malformed record",
		zap.String("file", rec.File),
		zap.Int("line", rec.Line),
		zap.String("reason", rec.Reason))
}

// join writes fields as one comma-delimited line. Separators inside a field
// would shift the columns, so they are replaced by spaces.
func join(fields ...string) string {
	for i, f := range fields {
		fields[i] = clean(f)
	}
	return strings.Join(fields, ",")
}

func clean(s string) string {
	return strings.NewReplacer(",", " ", "\n", " ", "\r", " ").Replace(s)
}
