// Package dormitory implements the occupancy and payment engine.
//
// The Engine holds rooms, dormers and monthly payment records in memory and
// enforces their invariants: a room is Occupied exactly when a dormer is
// assigned to it, balances never go negative, and there is at most one
// payment record per (room, month).
//
// The Service wraps the Engine with a Repository and flushes the affected
// collections after each mutation. The Handler exposes the Service over HTTP
// and the Feature registers it with the server loader.
//
// # Usage
//
//	engine := dormitory.NewEngine()
//	svc := dormitory.NewService(engine, flatfile.New(cfg.Data, logger), logger)
//	if err := svc.Load(ctx); err != nil {
//	    return err
//	}
//	receipt, err := svc.ApplyPayment(ctx, "101", 150)
package dormitory
