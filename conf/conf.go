package conf

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Cfg struct {
	DbDriver   string
	DbFileName string
	DbDsn      string
	Port       int
	Secret     string
	LogLevel   string
	// SocketQueueSize Buffered websocket events before SocketSubscriber rejects notifications.
	SocketQueueSize int
}

const (
	DefaultConfigName = "conf/app"
	DriverSqlite      = "sqlite"
	DriverMysql       = "mysql"
	DriverPostgres    = "postgres"
)

var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrMissingDsn    = errors.New("database dsn is required for this driver")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", DriverSqlite)
	v.SetDefault("db.filename", "channelnotify.db")
	v.SetDefault("db.dsn", "")
	v.SetDefault("http.port", 3000)
	v.SetDefault("auth.secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("socket.queuesize", 1000)
}

func getConfInt(v *viper.Viper, key, envKey string) int {
	val := os.Getenv(envKey)
	if val == "" {
		return v.GetInt(key)
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		log.Errorf("[getConfInt] Error parsing env variable '%s': %v", envKey, err)
		return v.GetInt(key)
	}

	return n
}

func getConfString(v *viper.Viper, key, envKey string) string {
	val := os.Getenv(envKey)
	if val == "" {
		val = v.GetString(key)
	}
	return strings.TrimSpace(val)
}

// Read loads the configuration. An empty configFile looks for conf/app.{yml,json,toml} in the
// working directory; a missing default file is not an error, everything has a default.
// Environment variables always win over file values.
func Read(configFile string) (*Cfg, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath("./")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debugln("[Read] no config file found, using defaults")
	}

	cfg := &Cfg{
		DbDriver:        strings.ToLower(getConfString(v, "db.driver", "DB_DRIVER")),
		DbFileName:      getConfString(v, "db.filename", "DB_FILENAME"),
		DbDsn:           getConfString(v, "db.dsn", "DB_DSN"),
		Port:            getConfInt(v, "http.port", "PORT"),
		Secret:          getConfString(v, "auth.secret", "SECRET"),
		LogLevel:        getConfString(v, "log.level", "LOG_LEVEL"),
		SocketQueueSize: getConfInt(v, "socket.queuesize", "SOCKET_QUEUE_SIZE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Cfg) Validate() error {
	switch cfg.DbDriver {
	case DriverSqlite:
		if cfg.DbFileName == "" {
			return errors.New("db.filename must not be empty")
		}
	case DriverMysql, DriverPostgres:
		if cfg.DbDsn == "" {
			return fmt.Errorf("%w: %s", ErrMissingDsn, cfg.DbDriver)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.DbDriver)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid http port %d", cfg.Port)
	}

	if cfg.SocketQueueSize <= 0 {
		return fmt.Errorf("invalid socket queue size %d", cfg.SocketQueueSize)
	}

	return nil
}

// ApplyLogLevel sets the logrus level, falling back to info on garbage.
func (cfg *Cfg) ApplyLogLevel() {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("[ApplyLogLevel] invalid log level '%s', using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
