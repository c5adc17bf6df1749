// Package store persists opaque registry snapshots. Backends only see a byte
// blob; the snapshot schema belongs to the ledger.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no snapshot has been saved yet.
var ErrNotFound = errors.New("snapshot not found")

// Store saves and loads one snapshot blob.
type Store interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}
