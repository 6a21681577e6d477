// Package reconcile detects and repairs occupancy drift between the persisted
// sources of the dormitory: room records, dormer assignments, the room layout
// generated by the setup and the payment records.
//
// A room is consistent when its record exists and reads Occupied exactly when
// a dormer is assigned. Files edited by hand or written by older builds can
// break that; the engine finds every such room and plans repairs.
//
// # Architecture
//
//  1. Adapter: loads the four sources as indices keyed by room number.
//  2. Engine: builds the union of room numbers and a result per room with
//     its mismatches.
//  3. Plan: turns results into a summary and repair actions; ApplyPlan runs
//     them through the adapter's Mutator once confirmed.
//  4. Cache: optional TTL cache of the indices with stampede protection, used
//     by the HTTP integrity endpoint.
//
// Payments for unknown rooms and rooms outside the layout are reported but
// never repaired automatically.
//
// # Usage
//
//	spec := &reconcile.Spec{Adapter: dormitory.NewReconcileAdapter(repo, svc)}
//	plan, n, err := reconcile.ReconcileAndApply(ctx, spec, reconcile.ReconcileOptions{
//	    DoFix:     true,
//	    Confirmed: true,
//	})
package reconcile
