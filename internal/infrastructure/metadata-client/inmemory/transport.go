package inmemory

import (
	"context"

	"github.com/tdex-network/wallet-metadata/internal/core/application/store"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/internal/core/ports"
	dbinmemory "github.com/tdex-network/wallet-metadata/internal/infrastructure/storage/db/inmemory"
)

type transport struct {
	store *store.Service
}

// NewTransport returns a metadata transport that talks directly to the given
// store service, skipping the network.
func NewTransport(svc *store.Service) ports.MetadataTransport {
	return &transport{svc}
}

// NewMemoryTransport returns a transport backed by a brand new in-memory
// store.
func NewMemoryTransport() ports.MetadataTransport {
	svc, _ := store.NewService(dbinmemory.NewMetadataRepositoryImpl())
	return NewTransport(svc)
}

func (t *transport) Fetch(
	ctx context.Context, address string,
) (*domain.MetadataPayload, error) {
	return t.store.Get(ctx, address)
}

func (t *transport) Put(
	ctx context.Context, address string, payload *domain.MetadataPayload,
) error {
	return t.store.Put(ctx, address, payload)
}
