package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/wallet-metadata/internal/config"
)

func TestInitConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		datadir := t.TempDir()
		t.Setenv("METADATA_DATADIR", datadir)

		err := config.InitConfig()
		require.NoError(t, err)

		require.Equal(t, 4, config.GetInt(config.LogLevelKey))
		require.Equal(t, 8080, config.GetInt(config.ListeningPortKey))
		require.Equal(t, config.DBTypeBadger, config.GetString(config.DBTypeKey))
		require.Equal(t, filepath.Join(datadir, config.DbLocation), config.GetDbDir())
		require.Zero(t, config.GetStatsInterval())

		_, err = os.Stat(config.GetDbDir())
		require.NoError(t, err)
	})

	t.Run("from env", func(t *testing.T) {
		datadir := t.TempDir()
		t.Setenv("METADATA_DATADIR", datadir)
		t.Setenv("METADATA_LOG_LEVEL", "5")
		t.Setenv("METADATA_LISTENING_PORT", "9090")
		t.Setenv("METADATA_DB_TYPE", config.DBTypeInMemory)
		t.Setenv("METADATA_STATS_INTERVAL", "60")

		err := config.InitConfig()
		require.NoError(t, err)

		require.Equal(t, 5, config.GetInt(config.LogLevelKey))
		require.Equal(t, 9090, config.GetInt(config.ListeningPortKey))
		require.Empty(t, config.GetDbDir())
		require.Equal(t, time.Minute, config.GetStatsInterval())

		_, err = os.Stat(filepath.Join(datadir, config.ProfilerLocation))
		require.NoError(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			key  string
			val  string
		}{
			{"unknown_db_type", "METADATA_DB_TYPE", "postgres"},
			{"port_out_of_range", "METADATA_LISTENING_PORT", "70000"},
			{"negative_stats_interval", "METADATA_STATS_INTERVAL", "-1"},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv("METADATA_DATADIR", t.TempDir())
				t.Setenv(tt.key, tt.val)

				err := config.InitConfig()
				require.Error(t, err)
			})
		}
	})
}

func TestInitClientConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		err := config.InitClientConfig()
		require.NoError(t, err)

		require.Equal(t, config.DefaultMetadataURL, config.GetString(config.MetadataURLKey))
		require.Equal(t, 30*time.Second, config.GetRequestTimeout())
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			key  string
			val  string
		}{
			{"metadata_url", "METADATA_METADATA_URL", "not an url"},
			{"entropy_url", "METADATA_ENTROPY_URL", "localhost"},
			{"timeout", "METADATA_REQUEST_TIMEOUT", "0"},
			{"rate", "METADATA_REQUESTS_PER_SECOND", "-1"},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv(tt.key, tt.val)

				err := config.InitClientConfig()
				require.Error(t, err)
			})
		}
	})
}
