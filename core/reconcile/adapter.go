package reconcile

import "context"

// Adapter loads the sources compared by the reconcile engine. Every index is
// keyed by room number.
type Adapter interface {
	// Name returns the unique name of this adapter.
	Name() string

	// LoadRoomIndex returns the recorded status of every room record.
	LoadRoomIndex(ctx context.Context) (map[string]string, error)

	// LoadDormerIndex returns the name of the dormer assigned to each room.
	LoadDormerIndex(ctx context.Context) (map[string]string, error)

	// LoadLayoutSet returns the room numbers the setup generates, or nil when
	// no setup exists.
	LoadLayoutSet(ctx context.Context) (map[string]struct{}, error)

	// LoadPaymentIndex returns the number of payment records per room.
	LoadPaymentIndex(ctx context.Context) (map[string]int, error)
}

// Mutator applies repairs. RepairRooms makes each listed room's record agree
// with its dormer, creating it when missing, and returns how many changed.
type Mutator interface {
	RepairRooms(ctx context.Context, rooms []string) (int, error)
}
