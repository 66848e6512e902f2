package walletrepo_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/wallet-metadata/internal/core/application/walletrepo"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
)

var testCredentials = domain.Credentials{
	GUID:      "d32e2a4c-4a3c-4b4f-9a4d-6d4f0a6c3a51",
	SharedKey: "5b2c6a7e-2f9e-4a8e-8d0c-1c2b3a4d5e6f",
	Password:  "correct horse battery staple",
}

func TestSetAndGet(t *testing.T) {
	repo := walletrepo.NewWalletRepo(domain.WalletRepoState{})
	defer repo.Close()

	err := repo.Set(domain.KeyPathCredentials, testCredentials)
	require.NoError(t, err)
	err = repo.Set(domain.KeyPathPropertiesLanguage, "en")
	require.NoError(t, err)

	state := repo.Get()
	require.Equal(t, testCredentials, state.Credentials)
	require.Equal(t, "en", state.Properties.Language)

	err = repo.Set(domain.KeyPathPropertiesLanguage, 1)
	require.ErrorIs(t, err, domain.ErrInvalidKeyPathValue)
	err = repo.Set(domain.KeyPath("unknown"), "")
	require.ErrorIs(t, err, domain.ErrUnknownKeyPath)

	// failed sets leave the state untouched
	require.Equal(t, state, repo.Get())

	repo.Replace(domain.WalletRepoState{EncryptedPayload: "cypher"})
	require.Equal(t, domain.WalletRepoState{EncryptedPayload: "cypher"}, repo.Get())
}

func TestSubscribeReplaysLatest(t *testing.T) {
	repo := walletrepo.NewWalletRepo(domain.WalletRepoState{})
	defer repo.Close()

	for i := 0; i < 3; i++ {
		err := repo.Set(domain.KeyPathPropertiesSessionToken, fmt.Sprintf("token%d", i))
		require.NoError(t, err)
	}

	updates, cancel := repo.Subscribe()
	defer cancel()

	state := receive(t, updates)
	require.Equal(t, "token2", state.Properties.SessionToken)

	for i := 3; i < 6; i++ {
		err := repo.Set(domain.KeyPathPropertiesSessionToken, fmt.Sprintf("token%d", i))
		require.NoError(t, err)
	}
	for i := 3; i < 6; i++ {
		state := receive(t, updates)
		require.Equal(t, fmt.Sprintf("token%d", i), state.Properties.SessionToken)
	}

	select {
	case state := <-updates:
		t.Fatalf("unexpected update %+v", state)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeCancel(t *testing.T) {
	repo := walletrepo.NewWalletRepo(domain.WalletRepoState{})

	updates, cancel := repo.Subscribe()
	receive(t, updates)
	cancel()
	// cancel is idempotent
	cancel()

	err := repo.Set(domain.KeyPathPropertiesLanguage, "it")
	require.NoError(t, err)

	for range updates {
	}

	otherUpdates, _ := repo.Subscribe()
	state := receive(t, otherUpdates)
	require.Equal(t, "it", state.Properties.Language)

	repo.Close()
	for range otherUpdates {
	}
}

func TestConcurrentSets(t *testing.T) {
	repo := walletrepo.NewWalletRepo(domain.WalletRepoState{})
	defer repo.Close()

	updates, cancel := repo.Subscribe()
	defer cancel()
	receive(t, updates)

	numWrites := 50
	wg := &sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < numWrites; i++ {
			// nolint
			repo.Set(domain.KeyPathPropertiesLanguage, fmt.Sprintf("lang%d", i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < numWrites; i++ {
			// nolint
			repo.Set(domain.KeyPathPropertiesAuthenticatorType, i)
		}
	}()
	wg.Wait()

	state := repo.Get()
	require.Equal(t, fmt.Sprintf("lang%d", numWrites-1), state.Properties.Language)
	require.Equal(t, numWrites-1, state.Properties.AuthenticatorType)

	// every mutation is delivered exactly once, the last one being the
	// current state
	var last domain.WalletRepoState
	for i := 0; i < 2*numWrites; i++ {
		last = receive(t, updates)
	}
	require.Equal(t, state, last)
}

func TestChangePassword(t *testing.T) {
	repo := walletrepo.NewWalletRepo(domain.WalletRepoState{
		Credentials: testCredentials,
	})
	defer repo.Close()

	_, err := repo.DecryptPayload()
	require.ErrorIs(t, err, domain.ErrNullEncryptedPayload)

	payload := `{"guid":"d32e2a4c-4a3c-4b4f-9a4d-6d4f0a6c3a51","options":{}}`
	err = repo.EncryptPayload(payload)
	require.NoError(t, err)
	oldCypher := repo.Get().EncryptedPayload
	require.NotEmpty(t, oldCypher)

	plaintext, err := repo.DecryptPayload()
	require.NoError(t, err)
	require.Equal(t, payload, plaintext)

	err = repo.ChangePassword("wrong password", "new password")
	require.ErrorIs(t, err, domain.ErrWrongPassword)

	err = repo.ChangePassword(testCredentials.Password, "new password")
	require.NoError(t, err)

	state := repo.Get()
	require.Equal(t, "new password", state.Credentials.Password)
	require.NotEqual(t, oldCypher, state.EncryptedPayload)

	plaintext, err = repo.DecryptPayload()
	require.NoError(t, err)
	require.Equal(t, payload, plaintext)
}

func receive(
	t *testing.T, updates <-chan domain.WalletRepoState,
) domain.WalletRepoState {
	select {
	case state, ok := <-updates:
		require.True(t, ok)
		return state
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for state update")
	}
	return domain.WalletRepoState{}
}
