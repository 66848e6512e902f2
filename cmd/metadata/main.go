package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/wallet-metadata/internal/core/application/metadata"
	"github.com/tdex-network/wallet-metadata/internal/core/application/rng"
	entropyclient "github.com/tdex-network/wallet-metadata/internal/infrastructure/entropy-client"
	metadataclient "github.com/tdex-network/wallet-metadata/internal/infrastructure/metadata-client"
	"github.com/urfave/cli/v2"
)

const (
	metadataURLKey       = "metadata_url"
	entropyURLKey        = "entropy_url"
	requestTimeoutKey    = "request_timeout"
	requestsPerSecondKey = "requests_per_second"
	credentialsKey       = "credentials"
	payloadKey           = "payload"

	defaultRequestTimeout = 30 * time.Second
)

var (
	version = "dev"

	metadataDataDir = btcutil.AppDataDir("metadata-cli", false)
	statePath       = filepath.Join(metadataDataDir, "state.json")
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = version
	app.Name = "wallet metadata CLI"
	app.Usage = "Command line interface to create, recover and sync the metadata of a wallet"
	app.Commands = append(
		app.Commands,
		&configCmd,
		&genseed,
		&create,
		&recoverCmd,
		&fetch,
		&save,
	)
	return app
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %s", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if _, err := os.Stat(metadataDataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(metadataDataDir, os.ModeDir|0700); err != nil {
			return err
		}
	}

	currentData, err := getState()
	if err != nil {
		currentData = map[string]string{}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.Marshal(mergedData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string, 0)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func getMetadataService() (*metadata.Service, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	timeout, rps := clientLimits(state)

	transport, err := metadataclient.NewClient(metadataclient.ClientOpts{
		URL:               state[metadataURLKey],
		Timeout:           timeout,
		RequestsPerSecond: rps,
	})
	if err != nil {
		return nil, err
	}
	return metadata.NewService(transport)
}

func getRngService() (*rng.Service, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	timeout, rps := clientLimits(state)

	server, err := entropyclient.NewClient(entropyclient.ClientOpts{
		URL:               state[entropyURLKey],
		Timeout:           timeout,
		RequestsPerSecond: rps,
	})
	if err != nil {
		return nil, err
	}
	return rng.NewService(server, nil)
}

func clientLimits(state map[string]string) (time.Duration, int) {
	var rps int
	fmt.Sscanf(state[requestsPerSecondKey], "%d", &rps)
	timeout, err := time.ParseDuration(state[requestTimeoutKey])
	if err != nil || timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return timeout, rps
}

func printJSON(resp interface{}) {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(buf))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[metadata] %v\n", err)
	os.Exit(1)
}
