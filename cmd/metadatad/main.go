package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tdex-network/wallet-metadata/internal/config"
	"github.com/tdex-network/wallet-metadata/internal/core/application/store"
	"github.com/tdex-network/wallet-metadata/internal/core/domain"
	dbbadger "github.com/tdex-network/wallet-metadata/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/wallet-metadata/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tdex-network/wallet-metadata/internal/interfaces/http"
	"github.com/tdex-network/wallet-metadata/pkg/stats"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	app = &cobra.Command{
		Use:          "metadatad",
		Short:        "wallet metadata store",
		Long:         "this service stores the signed and encrypted wallet metadata entries, each at the address of its signing key",
		Version:      formatVersion(),
		RunE:         action,
		SilenceUsage: true,
	}
)

func main() {
	if err := app.Execute(); err != nil {
		log.Fatal(err)
	}
}

func action(cmd *cobra.Command, args []string) error {
	if err := config.InitConfig(); err != nil {
		return err
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repo, err := newMetadataRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	storeSvc, err := store.NewService(repo)
	if err != nil {
		return err
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:   fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey)),
		NoMetrics: config.GetBool(config.NoMetricsKey),
		StoreSvc:  storeSvc,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if interval := config.GetStatsInterval(); interval > 0 {
		stats.EnableMemoryStatistics(
			ctx, interval,
			filepath.Join(config.GetDatadir(), config.ProfilerLocation),
		)
	}

	if err := svc.Start(); err != nil {
		return err
	}
	defer svc.Stop()

	log.Info("metadata store started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-sigChan

	log.Info("shutting down metadata store")
	return nil
}

func newMetadataRepository() (domain.MetadataRepository, error) {
	if config.GetString(config.DBTypeKey) == config.DBTypeInMemory {
		return inmemory.NewMetadataRepositoryImpl(), nil
	}

	var logger badger.Logger
	if log.GetLevel() >= log.DebugLevel {
		logger = log.StandardLogger()
	}
	return dbbadger.NewMetadataRepository(config.GetDbDir(), logger)
}

func formatVersion() string {
	return fmt.Sprintf(
		"Version: %s\nCommit: %s\nDate: %s",
		version, commit, date,
	)
}
