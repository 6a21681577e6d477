package dormitory

import (
	"context"

	"dormitory-manager/feature/dormitory/models"

	"golang.org/x/sync/errgroup"
)

// Repository persists the dormitory state. Each Save replaces the whole
// collection. LoadDormitory returns nil, nil when setup has not been done.
type Repository interface {
	LoadDormitory(ctx context.Context) (*models.Dormitory, error)
	SaveDormitory(ctx context.Context, d *models.Dormitory) error
	LoadRooms(ctx context.Context) ([]models.Room, error)
	SaveRooms(ctx context.Context, rooms []models.Room) error
	LoadDormers(ctx context.Context) ([]models.Dormer, error)
	SaveDormers(ctx context.Context, dormers []models.Dormer) error
	LoadPayments(ctx context.Context) ([]models.Payment, error)
	SavePayments(ctx context.Context, payments []models.Payment) error
	// Reset removes every collection and leaves empty ones behind.
	Reset(ctx context.Context) error
}

// Collection names a persisted collection.
type Collection string

const (
	CollectionDormitory Collection = "dormitory"
	CollectionRooms     Collection = "rooms"
	CollectionDormers   Collection = "dormers"
	CollectionPayments  Collection = "payments"
)

// LoadSnapshot reads all four collections concurrently.
func LoadSnapshot(ctx context.Context, repo Repository) (Snapshot, error) {
	var s Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		s.Dormitory, err = repo.LoadDormitory(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.Rooms, err = repo.LoadRooms(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.Dormers, err = repo.LoadDormers(ctx)
		return err
	})
	g.Go(func() (err error) {
		s.Payments, err = repo.LoadPayments(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// SaveSnapshot writes the named collections of s. With no names, all four
// are written.
func SaveSnapshot(ctx context.Context, repo Repository, s Snapshot, collections ...Collection) error {
	if len(collections) == 0 {
		collections = []Collection{CollectionDormitory, CollectionRooms, CollectionDormers, CollectionPayments}
	}
	for _, c := range collections {
		var err error
		switch c {
		case CollectionDormitory:
			if s.Dormitory != nil {
				err = repo.SaveDormitory(ctx, s.Dormitory)
			}
		case CollectionRooms:
			err = repo.SaveRooms(ctx, s.Rooms)
		case CollectionDormers:
			err = repo.SaveDormers(ctx, s.Dormers)
		case CollectionPayments:
			err = repo.SavePayments(ctx, s.Payments)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
