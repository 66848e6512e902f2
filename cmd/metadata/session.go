package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tdex-network/wallet-metadata/internal/core/application/walletrepo"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
)

// newSession returns a wallet repo holding the given credentials and the
// wallet mnemonic encrypted with the credentials password.
func newSession(
	credentials domain.Credentials, w *wallet.Wallet,
) (*walletrepo.WalletRepo, error) {
	repo := walletrepo.NewWalletRepo(domain.WalletRepoState{
		Credentials: credentials,
	})
	if err := repo.EncryptPayload(w.MnemonicString()); err != nil {
		return nil, err
	}
	return repo, nil
}

// storeSession persists the session. Credentials are encrypted with the
// password, the mnemonic is kept in the wallet payload format.
func storeSession(repo *walletrepo.WalletRepo) error {
	state := repo.Get()

	buf, err := json.Marshal(state.Credentials)
	if err != nil {
		return err
	}
	credentials, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  string(buf),
		Passphrase: state.Credentials.Password,
	})
	if err != nil {
		return err
	}

	return setState(map[string]string{
		credentialsKey: credentials,
		payloadKey:     state.EncryptedPayload,
	})
}

// loadSession restores the session stored with storeSession.
func loadSession(password string) (*walletrepo.WalletRepo, error) {
	if password == "" {
		return nil, errors.New("missing password")
	}
	state, err := getState()
	if err != nil {
		return nil, err
	}
	if state[credentialsKey] == "" || state[payloadKey] == "" {
		return nil, errors.New("wallet not found: try 'create' or 'recover'")
	}

	buf, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: state[credentialsKey],
		Passphrase: password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unlock wallet: %s", err)
	}
	credentials, err := domain.ParseCredentials(buf)
	if err != nil {
		return nil, err
	}

	return walletrepo.NewWalletRepo(domain.WalletRepoState{
		Credentials:      *credentials,
		EncryptedPayload: state[payloadKey],
	}), nil
}

// unlock restores the session wallet and derives its metadata state.
func unlock(repo *walletrepo.WalletRepo) (*wallet.Wallet, *domain.MetadataState, error) {
	mnemonic, err := repo.DecryptPayload()
	if err != nil {
		return nil, nil, err
	}
	w, err := wallet.NewWalletFromMnemonic(
		wallet.NewWalletFromMnemonicOpts{Mnemonic: strings.Fields(mnemonic)},
	)
	if err != nil {
		return nil, nil, err
	}
	nodes, err := domain.NewRemoteMetadataNodes(w.MasterKey())
	if err != nil {
		return nil, nil, err
	}
	secondPasswordNode, err := domain.NewSecondPasswordNode(repo.Get().Credentials)
	if err != nil {
		return nil, nil, err
	}
	return w, domain.NewMetadataState(nodes, secondPasswordNode, false), nil
}
