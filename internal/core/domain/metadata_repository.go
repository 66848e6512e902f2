package domain

import "context"

// MetadataRepository is the abstraction for any kind of database intended to
// persist the entries of the reference metadata store.
type MetadataRepository interface {
	// GetEntry returns the entry stored at the given address, or ErrNotFound.
	GetEntry(ctx context.Context, address string) (*MetadataPayload, error)
	// UpdateEntry updates the entry at the given address. The closure receives
	// nil if nothing is stored yet, and is run in a transactional way so
	// that the head of the chain cannot change in the meanwhile.
	UpdateEntry(
		ctx context.Context,
		address string,
		updateFn func(current *MetadataPayload) (*MetadataPayload, error),
	) error
	// DeleteEntry removes the entry at the given address, if any.
	DeleteEntry(ctx context.Context, address string) error
	// CountEntries returns the number of stored entries.
	CountEntries(ctx context.Context) (int, error)
	Close()
}
