package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const (
	metadataDir = "metadata"

	maxConflictRetries = 5
	gcInterval         = 30 * time.Minute
)

type metadataRepository struct {
	store *badgerhold.Store
	quit  chan struct{}
}

// NewMetadataRepository opens (or creates if not exists) the badger store
// under the given data dir. An empty dir makes the store run in memory.
func NewMetadataRepository(
	baseDbDir string, logger badger.Logger,
) (domain.MetadataRepository, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, metadataDir)
	}

	quit := make(chan struct{})
	store, err := createDb(dbDir, logger, quit)
	if err != nil {
		return nil, fmt.Errorf("opening metadata db: %w", err)
	}
	return &metadataRepository{store, quit}, nil
}

func (r *metadataRepository) GetEntry(
	_ context.Context, address string,
) (*domain.MetadataPayload, error) {
	var entry domain.MetadataPayload
	if err := r.store.Get(address, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *metadataRepository) UpdateEntry(
	_ context.Context, address string,
	updateFn func(current *domain.MetadataPayload) (*domain.MetadataPayload, error),
) error {
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = r.store.Badger().Update(func(tx *badger.Txn) error {
			return r.updateEntry(tx, address, updateFn)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		log.Debugf("conflict while updating entry %s, retrying", address)
	}
	return err
}

func (r *metadataRepository) DeleteEntry(
	_ context.Context, address string,
) error {
	if err := r.store.Delete(address, domain.MetadataPayload{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (r *metadataRepository) CountEntries(_ context.Context) (int, error) {
	count, err := r.store.Count(&domain.MetadataPayload{}, nil)
	if err != nil {
		return -1, err
	}
	return int(count), nil
}

func (r *metadataRepository) Close() {
	close(r.quit)
	r.store.Close()
}

func (r *metadataRepository) updateEntry(
	tx *badger.Txn, address string,
	updateFn func(current *domain.MetadataPayload) (*domain.MetadataPayload, error),
) error {
	var current *domain.MetadataPayload

	var entry domain.MetadataPayload
	if err := r.store.TxGet(tx, address, &entry); err != nil {
		if !errors.Is(err, badgerhold.ErrNotFound) {
			return err
		}
	} else {
		current = &entry
	}

	updatedEntry, err := updateFn(current)
	if err != nil {
		return err
	}
	if updatedEntry == nil {
		return fmt.Errorf("updated entry must not be null")
	}

	return r.store.TxUpsert(tx, address, updatedEntry)
}

func createDb(
	dbDir string, logger badger.Logger, quit chan struct{},
) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(gcInterval)

		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-quit:
					return
				case <-ticker.C:
					if err := db.Badger().RunValueLogGC(0.5); err != nil &&
						err != badger.ErrNoRewrite {
						log.Error(err)
					}
				}
			}
		}()
	}

	return db, nil
}
