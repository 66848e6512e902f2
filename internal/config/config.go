package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// ListeningPortKey is the port where the HTTP metadata interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// NoMetricsKey disables the prometheus /metrics endpoint
	NoMetricsKey = "NO_METRICS"
	// StatsIntervalKey defines interval in seconds for printing memory
	// statistics, 0 to disable
	StatsIntervalKey = "STATS_INTERVAL"
	// MetadataURLKey is the base url of the remote metadata store
	MetadataURLKey = "METADATA_URL"
	// EntropyURLKey is the base url of the remote random bytes service
	EntropyURLKey = "ENTROPY_URL"
	// RequestTimeoutKey is the timeout in seconds of any outgoing request
	RequestTimeoutKey = "REQUEST_TIMEOUT"
	// RequestsPerSecondKey rate limits outgoing requests, 0 to disable
	RequestsPerSecondKey = "REQUESTS_PER_SECOND"

	DBTypeBadger   = "badger"
	DBTypeInMemory = "inmemory"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	DefaultMetadataURL = "http://localhost:8080"
	DefaultEntropyURL  = "http://localhost:8080"
)

var (
	vip            *viper.Viper
	defaultDatadir = btcutil.AppDataDir("metadatad", false)

	supportedDBTypes = map[string]struct{}{
		DBTypeBadger:   {},
		DBTypeInMemory: {},
	}
)

// InitConfig loads the configuration of the daemon from the environment and
// creates the datadir.
func InitConfig() error {
	initViper()

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

// InitClientConfig loads only the configuration of the remote services
// clients.
func InitClientConfig() error {
	initViper()

	if err := validateClient(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}
	return nil
}

func initViper() {
	vip = viper.New()
	vip.SetEnvPrefix("METADATA")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(ListeningPortKey, 8080)
	vip.SetDefault(DBTypeKey, DBTypeBadger)
	vip.SetDefault(NoMetricsKey, false)
	vip.SetDefault(StatsIntervalKey, 0)
	vip.SetDefault(MetadataURLKey, DefaultMetadataURL)
	vip.SetDefault(EntropyURLKey, DefaultEntropyURL)
	vip.SetDefault(RequestTimeoutKey, 30)
	vip.SetDefault(RequestsPerSecondKey, 0)
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory of the badger db, or an empty string if
// the db runs in memory.
func GetDbDir() string {
	if GetString(DBTypeKey) == DBTypeInMemory {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetRequestTimeout() time.Duration {
	return time.Duration(GetInt(RequestTimeoutKey)) * time.Second
}

func GetStatsInterval() time.Duration {
	return time.Duration(GetInt(StatsIntervalKey)) * time.Second
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	port := GetInt(ListeningPortKey)
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be in range [1, 65535]", ListeningPortKey)
	}

	dbType := GetString(DBTypeKey)
	if _, ok := supportedDBTypes[dbType]; !ok {
		return fmt.Errorf("db type %s not supported", dbType)
	}

	if GetInt(StatsIntervalKey) < 0 {
		return fmt.Errorf("%s must not be negative", StatsIntervalKey)
	}

	return nil
}

func validateClient() error {
	for _, key := range []string{MetadataURLKey, EntropyURLKey} {
		u, err := url.Parse(GetString(key))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be a valid url", key)
		}
	}
	if GetInt(RequestTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", RequestTimeoutKey)
	}
	if GetInt(RequestsPerSecondKey) < 0 {
		return fmt.Errorf("%s must not be negative", RequestsPerSecondKey)
	}
	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if dbDir := GetDbDir(); dbDir != "" {
		if err := makeDirectoryIfNotExists(dbDir); err != nil {
			return err
		}
	}

	if GetStatsInterval() > 0 {
		if err := makeDirectoryIfNotExists(
			filepath.Join(datadir, ProfilerLocation),
		); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
