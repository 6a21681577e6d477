package flatfile

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"dormitory-manager/feature/dormitory/models"
)

// FileReport describes one data file.
type FileReport struct {
	Name      string   `json:"name"`
	Path      string   `json:"path"`
	Exists    bool     `json:"exists"`
	Records   int      `json:"records"`
	Malformed []string `json:"malformed,omitempty"`
}

// Healthy reports whether the file exists and every line decoded.
func (r FileReport) Healthy() bool {
	return r.Exists && len(r.Malformed) == 0
}

// Inspect decodes every data file without loading it and reports the record
// and malformed line counts.
func (s *Store) Inspect(ctx context.Context) ([]FileReport, error) {
	reports := make([]FileReport, 0, 4)

	setup := FileReport{Name: s.files.Setup, Path: s.Path(s.files.Setup)}
	if _, err := os.Stat(setup.Path); err == nil {
		setup.Exists = true
		d, err := s.LoadDormitory(ctx)
		if err != nil {
			return nil, err
		}
		if d != nil {
			setup.Records = 1
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	reports = append(reports, setup)

	checks := []struct {
		name   string
		fields int
		decode func([]string) error
	}{
		{s.files.Rooms, roomFields, func(p []string) error {
			_, err := models.ParseRoomStatus(p[1])
			return err
		}},
		{s.files.Dormers, dormerFields, func(p []string) error {
			_, err := decodeDormer(p)
			return err
		}},
		{s.files.Payments, paymentFields, func(p []string) error {
			_, err := decodePayment(p)
			return err
		}},
	}

	for _, c := range checks {
		r := FileReport{Name: c.name, Path: s.Path(c.name)}
		if _, err := os.Stat(r.Path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			reports = append(reports, r)
			continue
		}
		r.Exists = true
		n, bad, err := s.scan(c.name, c.fields, c.decode)
		if err != nil {
			return nil, err
		}
		r.Records = n
		for _, rec := range bad {
			r.Malformed = append(r.Malformed, rec.Error())
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// EnsureFiles creates any missing data file empty and returns the names it
// created.
func (s *Store) EnsureFiles() ([]string, error) {
	var created []string
	for _, name := range s.files.All() {
		if _, err := os.Stat(s.Path(name)); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return created, err
		}
		if err := s.writeLines(name, nil); err != nil {
			return created, err
		}
		created = append(created, name)
	}
	return created, nil
}
