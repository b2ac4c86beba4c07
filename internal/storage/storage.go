// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"droplink/internal/model"
)

// ErrNotFound is returned when no credential has been stored yet.
var ErrNotFound = errors.New("not found")

// Storage is the interface for all persistence operations. The credential is
// the result of pairing with a server; at most one is stored.
type Storage interface {
	SaveCredential(ctx context.Context, cred *model.Credential) error
	Credential(ctx context.Context) (*model.Credential, error)
	DeleteCredential(ctx context.Context) error

	// HasValidCredential implements the check the feed session performs
	// before each fetch.
	HasValidCredential(ctx context.Context) (bool, error)

	Close() error
}
