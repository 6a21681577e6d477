// Package models defines the dormitory domain entities.
//
// The types here are plain data holders: Room, Dormer, Payment and the
// Dormitory setup. The only behaviour they carry is derived values that are
// pure functions of the entity and an explicit point in time, such as a
// payment's Paid/Due/Late status.
//
// # Entities
//
//   - Room: a room number and its Vacant/Occupied status.
//   - Dormer: a resident assigned to exactly one room, with a remaining balance.
//   - Payment: a monthly charge for a room, keyed by (room number, month label).
//   - Dormitory: name, address and the floors × rooms-per-floor layout.
package models
