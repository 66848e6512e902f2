package main

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/tdex-network/wallet-metadata/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var (
	passwordFlag = &cli.StringFlag{
		Name:     "password",
		Usage:    "the password of the wallet",
		Required: true,
	}
	mnemonicFlag = &cli.StringFlag{
		Name:  "mnemonic",
		Usage: "the space separated mnemonic of the wallet",
	}
)

var create = cli.Command{
	Name:  "create",
	Usage: "create a new wallet and store its credentials into the remote metadata",
	Flags: []cli.Flag{
		passwordFlag,
		mnemonicFlag,
	},
	Action: createAction,
}

var recoverCmd = cli.Command{
	Name:  "recover",
	Usage: "recover the credentials of a wallet from its mnemonic only",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "mnemonic",
			Usage:    "the space separated mnemonic of the wallet",
			Required: true,
		},
	},
	Action: recoverAction,
}

func createAction(ctx *cli.Context) error {
	metadataSvc, err := getMetadataService()
	if err != nil {
		return err
	}

	w, err := newWallet(ctx)
	if err != nil {
		return err
	}

	credentials, err := domain.NewCredentials(ctx.String("password"))
	if err != nil {
		return err
	}
	repo, err := newSession(*credentials, w)
	if err != nil {
		return err
	}
	defer repo.Close()

	_, state, err := unlock(repo)
	if err != nil {
		return err
	}

	state, err = metadataSvc.Initialize(
		ctx.Context, w.MasterKey(), state.SecondPasswordNode,
	)
	if err != nil {
		return err
	}
	if err := metadataSvc.SaveCredentials(ctx.Context, *credentials, state); err != nil {
		return err
	}
	if err := repo.Set(domain.KeyPathMetadata, state); err != nil {
		return err
	}

	if err := storeSession(repo); err != nil {
		return err
	}
	log.Debug("wallet session stored")

	fmt.Println()
	fmt.Println("guid:", credentials.GUID)
	fmt.Println("mnemonic:", w.MnemonicString())
	return nil
}

func recoverAction(ctx *cli.Context) error {
	metadataSvc, err := getMetadataService()
	if err != nil {
		return err
	}

	mnemonic := ctx.String("mnemonic")
	state, credentials, err := metadataSvc.InitializeAndRecoverCredentials(
		ctx.Context, mnemonic,
	)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotYetCreated {
			return fmt.Errorf("no wallet credentials found for the given mnemonic")
		}
		return err
	}

	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: strings.Fields(mnemonic),
	})
	if err != nil {
		return err
	}
	repo, err := newSession(*credentials, w)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Set(domain.KeyPathMetadata, state); err != nil {
		return err
	}
	if err := storeSession(repo); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("guid:", credentials.GUID)
	fmt.Println("wallet recovered, unlock it with its original password")
	return nil
}

// newWallet restores the wallet of the given mnemonic, or generates a new one
// from server and local entropy.
func newWallet(ctx *cli.Context) (*wallet.Wallet, error) {
	mnemonic := strings.Fields(ctx.String("mnemonic"))
	if len(mnemonic) > 0 {
		w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
			Mnemonic: mnemonic,
		})
		if err != nil {
			return nil, domain.ErrInvalidMnemonic
		}
		return w, nil
	}

	rngSvc, err := getRngService()
	if err != nil {
		return nil, err
	}
	return rngSvc.NewMnemonic(ctx.Context, 128)
}
