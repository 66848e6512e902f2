package ports

import (
	"context"

	"github.com/tdex-network/wallet-metadata/internal/core/domain"
)

// MetadataTransport is the client of the remote metadata store.
type MetadataTransport interface {
	// Fetch returns the entry stored at the given address. It must return
	// domain.ErrNotFound if nothing is stored there.
	Fetch(ctx context.Context, address string) (*domain.MetadataPayload, error)
	// Put writes the entry at the given address.
	Put(ctx context.Context, address string, payload *domain.MetadataPayload) error
}
