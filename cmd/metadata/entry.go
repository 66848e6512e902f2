package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	"github.com/urfave/cli/v2"
)

var entryTypeFlag = &cli.StringFlag{
	Name:  "type",
	Usage: "the name of the entry type, ie. walletCredentials or contacts",
}

var fetch = cli.Command{
	Name:  "fetch",
	Usage: "fetch and decrypt one or all metadata entries",
	Flags: []cli.Flag{
		passwordFlag,
		entryTypeFlag,
	},
	Action: fetchAction,
}

var save = cli.Command{
	Name:  "save",
	Usage: "encrypt, sign and write a metadata entry",
	Flags: []cli.Flag{
		passwordFlag,
		&cli.StringFlag{
			Name:     "type",
			Usage:    entryTypeFlag.Usage,
			Required: true,
		},
		&cli.StringFlag{
			Name:     "payload",
			Usage:    "the JSON content of the entry",
			Required: true,
		},
	},
	Action: saveAction,
}

func fetchAction(ctx *cli.Context) error {
	metadataSvc, err := getMetadataService()
	if err != nil {
		return err
	}
	repo, err := loadSession(ctx.String("password"))
	if err != nil {
		return err
	}
	defer repo.Close()

	_, state, err := unlock(repo)
	if err != nil {
		return err
	}

	if name := ctx.String("type"); name != "" {
		entryType, err := domain.ParseEntryType(name)
		if err != nil {
			return err
		}
		plaintext, err := metadataSvc.Fetch(ctx.Context, entryType, state.MetadataNodes)
		if err != nil {
			return err
		}
		fmt.Println(plaintext)
		return nil
	}

	entries, err := metadataSvc.FetchEntries(ctx.Context, state.MetadataNodes)
	if err != nil {
		return err
	}
	resp := make(map[string]json.RawMessage, len(entries))
	for entryType, plaintext := range entries {
		resp[entryType.String()] = json.RawMessage(plaintext)
	}
	printJSON(resp)
	return nil
}

func saveAction(ctx *cli.Context) error {
	entryType, err := domain.ParseEntryType(ctx.String("type"))
	if err != nil {
		return err
	}
	if entryType == domain.EntryTypeRoot || entryType == domain.EntryTypeWalletCredentials {
		return errors.New("entry type is managed by create and recover commands")
	}

	metadataSvc, err := getMetadataService()
	if err != nil {
		return err
	}
	repo, err := loadSession(ctx.String("password"))
	if err != nil {
		return err
	}
	defer repo.Close()

	_, state, err := unlock(repo)
	if err != nil {
		return err
	}

	if err := metadataSvc.Save(
		ctx.Context, ctx.String("payload"), entryType, state.MetadataNodes,
	); err != nil {
		return err
	}

	fmt.Printf("%s entry saved\n", entryType)
	return nil
}
