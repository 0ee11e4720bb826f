package db

import (
	"context"
	"errors"

	"github.com/jakechorley/rostergrid/pkg/core/model"
)

// ErrNotFound is returned when a delete targets a record that does not exist
var ErrNotFound = errors.New("record not found")

// RosterReader defines the read operations needed to build a table snapshot
type RosterReader interface {
	GetRegistrars(ctx context.Context) ([]Registrar, error)
	GetShifts(ctx context.Context, window model.Window) ([]Shift, error)
	GetLeaves(ctx context.Context, window model.Window) ([]Leave, error)
	// GetStatuses returns statuses whose range overlaps the window
	GetStatuses(ctx context.Context, window model.Window) ([]Status, error)
}

// RosterWriter defines the write operations used by imports and the interactive grid
type RosterWriter interface {
	InsertRegistrar(ctx context.Context, registrar *Registrar) error
	InsertShift(ctx context.Context, shift *Shift) error
	InsertLeave(ctx context.Context, leave *Leave) error
	InsertStatus(ctx context.Context, status *Status) error
	DeleteShift(ctx context.Context, id int64) error
	DeleteLeave(ctx context.Context, id int64) error
}

// RosterStore combines reads and writes
type RosterStore interface {
	RosterReader
	RosterWriter
}

// Database defines the interface for all database operations.
// Both postgres.DB and sqlite.DB implement this interface.
type Database interface {
	RosterStore
	RunMigrations(ctx context.Context) ([]string, error)
	Close()
}
