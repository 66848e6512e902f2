package metadata_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
)

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Fetch(
	ctx context.Context, address string,
) (*domain.MetadataPayload, error) {
	args := m.Called(address)

	var res *domain.MetadataPayload
	if a := args.Get(0); a != nil {
		res = a.(*domain.MetadataPayload)
	}
	return res, args.Error(1)
}

func (m *mockTransport) Put(
	ctx context.Context, address string, payload *domain.MetadataPayload,
) error {
	args := m.Called(address, payload)
	return args.Error(0)
}

// memTransport keeps the whole history of every address.
type memTransport struct {
	lock    *sync.Mutex
	entries map[string][]domain.MetadataPayload
}

func newMemTransport() *memTransport {
	return &memTransport{&sync.Mutex{}, make(map[string][]domain.MetadataPayload)}
}

func (m *memTransport) Fetch(
	_ context.Context, address string,
) (*domain.MetadataPayload, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	history, ok := m.entries[address]
	if !ok {
		return nil, domain.ErrNotFound
	}
	last := history[len(history)-1]
	return &last, nil
}

func (m *memTransport) Put(
	_ context.Context, address string, payload *domain.MetadataPayload,
) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.entries[address] = append(m.entries[address], *payload)
	return nil
}

func (m *memTransport) history(address string) []domain.MetadataPayload {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.entries[address]
}
