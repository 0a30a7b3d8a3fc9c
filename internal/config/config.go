// Package config loads the lineplanner server configuration.
//
// Configuration comes from an optional TOML file; every field has a
// default so running without a file works out of the box:
//
//	[server]
//	addr = ":8080"
//	cors_origins = ["http://localhost:3000"]
//
//	[storage]
//	backend = "file"        # memory, file, redis or mongo
//	restore_latest = true   # reload the newest snapshot at startup
//
//	[storage.file]
//	dir = ""                # defaults to ~/.config/lineplanner/snapshots
//
//	[storage.redis]
//	addr = "localhost:6379"
//
//	[storage.mongo]
//	uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

// Storage backend names accepted in [storage].backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

var validBackends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	Backend       string      `toml:"backend"`
	RestoreLatest bool        `toml:"restore_latest"`
	File          FileConfig  `toml:"file"`
	Redis         RedisConfig `toml:"redis"`
	Mongo         MongoConfig `toml:"mongo"`
}

// FileConfig configures the file backend.
type FileConfig struct {
	Dir string `toml:"dir"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Storage: StorageConfig{
			Backend:       BackendFile,
			RestoreLatest: true,
			Redis:         RedisConfig{Addr: "localhost:6379"},
			Mongo:         MongoConfig{URI: "mongodb://localhost:27017"},
		},
	}
}

// Load reads the TOML file at path on top of the defaults.
// A missing file is not an error; the defaults apply unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if !slices.Contains(validBackends, c.Storage.Backend) {
		return fmt.Errorf("storage.backend %q is not one of %v", c.Storage.Backend, validBackends)
	}
	return nil
}
