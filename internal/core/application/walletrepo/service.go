package walletrepo

import (
	"sync"
	"sync/atomic"

	"github.com/lightningnetwork/lnd/queue"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

const (
	// PBKDF2Iterations is the number of rounds used to stretch the password
	// that encrypts the wallet payload.
	PBKDF2Iterations = 5000

	subscriberQueueSize = 20
)

// WalletRepo is the single source of truth of a wallet session. Writes are
// serialized, reads never block.
type WalletRepo struct {
	lock    *sync.Mutex
	current atomic.Value

	subscribers map[uint64]*subscriber
	nextID      uint64
}

type subscriber struct {
	updates *queue.ConcurrentQueue
	out     chan domain.WalletRepoState
	quit    chan struct{}
	once    *sync.Once
}

// NewWalletRepo returns a container holding the given initial state.
func NewWalletRepo(initialState domain.WalletRepoState) *WalletRepo {
	r := &WalletRepo{
		lock:        &sync.Mutex{},
		subscribers: make(map[uint64]*subscriber),
	}
	r.current.Store(initialState)
	return r
}

// Get returns the current state.
func (r *WalletRepo) Get() domain.WalletRepoState {
	return r.current.Load().(domain.WalletRepoState)
}

// Set replaces the field at the given key path and publishes the new state.
func (r *WalletRepo) Set(path domain.KeyPath, value interface{}) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	next, err := r.Get().With(path, value)
	if err != nil {
		return err
	}
	r.publish(next)
	return nil
}

// Replace replaces the whole state and publishes it.
func (r *WalletRepo) Replace(state domain.WalletRepoState) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.publish(state)
}

// Subscribe returns a channel that immediately receives the current state,
// then every following one in order. The returned function cancels the
// subscription and closes the channel.
func (r *WalletRepo) Subscribe() (<-chan domain.WalletRepoState, func()) {
	sub := &subscriber{
		updates: queue.NewConcurrentQueue(subscriberQueueSize),
		out:     make(chan domain.WalletRepoState),
		quit:    make(chan struct{}),
		once:    &sync.Once{},
	}
	sub.updates.Start()
	go sub.forward()

	r.lock.Lock()
	id := r.nextID
	r.nextID++
	r.subscribers[id] = sub
	sub.updates.ChanIn() <- r.Get()
	r.lock.Unlock()

	cancel := func() {
		r.lock.Lock()
		delete(r.subscribers, id)
		r.lock.Unlock()
		sub.stop()
	}
	return sub.out, cancel
}

// Close cancels all subscriptions.
func (r *WalletRepo) Close() {
	r.lock.Lock()
	subs := r.subscribers
	r.subscribers = make(map[uint64]*subscriber)
	r.lock.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
}

// EncryptPayload encrypts the given wallet payload with the current password
// and stores it.
func (r *WalletRepo) EncryptPayload(plaintext string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	state := r.Get()
	cypher, err := wallet.EncryptWithPassword(wallet.EncryptWithPasswordOpts{
		PlainText:  plaintext,
		Password:   state.Credentials.Password,
		Iterations: PBKDF2Iterations,
	})
	if err != nil {
		return err
	}
	state.EncryptedPayload = cypher
	r.publish(state)
	return nil
}

// DecryptPayload returns the plaintext of the stored wallet payload.
func (r *WalletRepo) DecryptPayload() (string, error) {
	state := r.Get()
	if state.EncryptedPayload == "" {
		return "", domain.ErrNullEncryptedPayload
	}
	return decryptPayload(state.EncryptedPayload, state.Credentials.Password)
}

// ChangePassword re-encrypts the wallet payload, if any, and updates the
// password in a single mutation.
func (r *WalletRepo) ChangePassword(oldPassword, newPassword string) error {
	if newPassword == "" {
		return wallet.ErrNullPassword
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	state := r.Get()
	if state.Credentials.Password != oldPassword {
		return domain.ErrWrongPassword
	}

	if state.EncryptedPayload != "" {
		plaintext, err := decryptPayload(state.EncryptedPayload, oldPassword)
		if err != nil {
			return err
		}
		cypher, err := wallet.EncryptWithPassword(wallet.EncryptWithPasswordOpts{
			PlainText:  plaintext,
			Password:   newPassword,
			Iterations: PBKDF2Iterations,
		})
		if err != nil {
			return err
		}
		state.EncryptedPayload = cypher
	}
	state.Credentials.Password = newPassword

	r.publish(state)
	log.Debug("wallet password changed")
	return nil
}

// publish must be called with the lock held.
func (r *WalletRepo) publish(state domain.WalletRepoState) {
	r.current.Store(state)
	for _, sub := range r.subscribers {
		sub.updates.ChanIn() <- state
	}
}

func decryptPayload(cypher, password string) (string, error) {
	plaintext, err := wallet.DecryptWithPassword(wallet.DecryptWithPasswordOpts{
		CypherText: cypher,
		Password:   password,
		Iterations: PBKDF2Iterations,
	})
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	return plaintext, nil
}

func (s *subscriber) forward() {
	defer close(s.out)

	for {
		select {
		case update, ok := <-s.updates.ChanOut():
			if !ok {
				return
			}
			select {
			case s.out <- update.(domain.WalletRepoState):
			case <-s.quit:
				return
			}
		case <-s.quit:
			return
		}
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() {
		close(s.quit)
		s.updates.Stop()
	})
}
