package main

import (
	"errors"
	"fmt"

	"github.com/tdex-network/wallet-metadata/internal/config"
	"github.com/urfave/cli/v2"
)

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the metadata CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:  "init",
			Usage: "initialize the local state with flags, defaults are read from env",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "metadata_url",
					Usage: "the base url of the remote metadata store",
				},
				&cli.StringFlag{
					Name:  "entropy_url",
					Usage: "the base url of the remote random bytes service",
				},
				&cli.DurationFlag{
					Name:  "request_timeout",
					Usage: "the timeout of every request, e.g. 30s",
				},
				&cli.IntFlag{
					Name:  "requests_per_second",
					Usage: "the max number of requests per second, 0 for unlimited",
				},
			},
			Action: configInitAction,
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		if key == credentialsKey || key == payloadKey {
			continue
		}
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(ctx *cli.Context) error {
	if err := config.InitClientConfig(); err != nil {
		return err
	}

	metadataURL := config.GetString(config.MetadataURLKey)
	if v := ctx.String("metadata_url"); v != "" {
		metadataURL = v
	}
	entropyURL := config.GetString(config.EntropyURLKey)
	if v := ctx.String("entropy_url"); v != "" {
		entropyURL = v
	}
	timeout := config.GetRequestTimeout()
	if ctx.IsSet("request_timeout") {
		timeout = ctx.Duration("request_timeout")
	}
	rps := config.GetInt(config.RequestsPerSecondKey)
	if ctx.IsSet("requests_per_second") {
		rps = ctx.Int("requests_per_second")
	}

	return setState(map[string]string{
		metadataURLKey:       metadataURL,
		entropyURLKey:        entropyURL,
		requestTimeoutKey:    timeout.String(),
		requestsPerSecondKey: fmt.Sprintf("%d", rps),
	})
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := ctx.Args().Get(0)
	value := ctx.Args().Get(1)
	if key == credentialsKey || key == payloadKey {
		return fmt.Errorf("%s can't be set manually", key)
	}

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s %s has been set\n", key, value)

	return nil
}
