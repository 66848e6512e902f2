package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tdex-network/wallet-metadata/internal/core/domain"
)

// MetadataRepositoryImpl represents an in memory storage
type MetadataRepositoryImpl struct {
	entries map[string]domain.MetadataPayload

	lock *sync.RWMutex
}

// NewMetadataRepositoryImpl returns a new empty MetadataRepositoryImpl
func NewMetadataRepositoryImpl() *MetadataRepositoryImpl {
	return &MetadataRepositoryImpl{
		entries: map[string]domain.MetadataPayload{},
		lock:    &sync.RWMutex{},
	}
}

// GetEntry returns a copy of the entry stored at the given address
func (r *MetadataRepositoryImpl) GetEntry(
	_ context.Context, address string,
) (*domain.MetadataPayload, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	entry, ok := r.entries[address]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// UpdateEntry holds the write lock for the whole update
func (r *MetadataRepositoryImpl) UpdateEntry(
	_ context.Context, address string,
	updateFn func(current *domain.MetadataPayload) (*domain.MetadataPayload, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	var current *domain.MetadataPayload
	if entry, ok := r.entries[address]; ok {
		current = &entry
	}

	updatedEntry, err := updateFn(current)
	if err != nil {
		return err
	}
	if updatedEntry == nil {
		return fmt.Errorf("updated entry must not be null")
	}

	r.entries[address] = *updatedEntry
	return nil
}

func (r *MetadataRepositoryImpl) DeleteEntry(
	_ context.Context, address string,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.entries, address)
	return nil
}

func (r *MetadataRepositoryImpl) CountEntries(_ context.Context) (int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.entries), nil
}

func (r *MetadataRepositoryImpl) Close() {}
