package main

import (
	"fmt"

	"github.com/tdex-network/wallet-metadata/pkg/wallet"
	"github.com/urfave/cli/v2"
)

var genseed = cli.Command{
	Name:  "genseed",
	Usage: "generate a mnemonic seed from server and local entropy",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "strength",
			Usage: "the entropy size in bits, multiple of 32 in range [128, 256]",
			Value: 128,
		},
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "use local entropy only, without contacting the entropy server",
		},
	},
	Action: genSeedAction,
}

func genSeedAction(ctx *cli.Context) error {
	w, err := genWallet(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(w.MnemonicString())

	return nil
}

func genWallet(ctx *cli.Context) (*wallet.Wallet, error) {
	strength := ctx.Int("strength")
	if ctx.Bool("offline") {
		return wallet.NewWallet(wallet.NewWalletOpts{EntropySize: strength})
	}

	rngSvc, err := getRngService()
	if err != nil {
		return nil, err
	}
	return rngSvc.NewMnemonic(ctx.Context, strength)
}
