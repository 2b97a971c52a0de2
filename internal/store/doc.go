// Package store defines the persistence contracts for projects and tasks,
// shared store-level errors, and the transaction helper used by services.
// Implementations live under internal/platform.
package store
