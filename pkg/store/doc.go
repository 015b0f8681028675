// Package store defines the storage interfaces used by the assistant.
//
// Interfaces are defined here; the GORM implementations live in the gorm
// subpackage. Handlers and domain services depend only on these interfaces,
// which keeps them testable with in-memory fakes and sqlmock.
package store
