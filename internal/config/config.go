// Package config loads the YAML process configuration and applies
// command line overrides.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

const (
	DefaultPath          = "config.yaml"
	DefaultAddress       = "127.0.0.1:3000"
	DefaultGRPCAddress   = "127.0.0.1:3200"
	DefaultMaxImageBytes = 16 << 20
	DefaultDatabaseFile  = "db/homebox.leveldb"
	DefaultCookieStorage = "cookie.key"
	DefaultLogLevel      = "info"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Logging  Logging  `yaml:"logging"`
}

type Server struct {
	Address       string `yaml:"address"`
	GRPCAddress   string `yaml:"grpc_address"`
	MaxImageBytes int64  `yaml:"max_image_bytes"`
}

type Database struct {
	Engine   string `yaml:"engine"`
	File     string `yaml:"file"`
	ReadOnly bool   `yaml:"read_only"`
}

type Auth struct {
	Password string `yaml:"password"`
	// CookieStorage file holding the cookie sealing key, created on first start
	CookieStorage string `yaml:"cookie_storage"`
}

type Logging struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default configuration without a password
func Default() *Config {
	return &Config{
		Server: Server{
			Address:       DefaultAddress,
			GRPCAddress:   DefaultGRPCAddress,
			MaxImageBytes: DefaultMaxImageBytes,
		},
		Database: Database{
			Engine: storage.EngineLevelDB,
			File:   DefaultDatabaseFile,
		},
		Auth: Auth{
			CookieStorage: DefaultCookieStorage,
		},
		Logging: Logging{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads path over the defaults. Validation is left to the caller
// so flags can be applied first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

// StorageOptions the store settings of the database section
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Engine:   c.Database.Engine,
		Path:     c.Database.File,
		ReadOnly: c.Database.ReadOnly,
	}
}

func (c *Config) Validate() error {
	var errs []error
	if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
		errs = append(errs, fmt.Errorf("server.address: %w", err))
	}
	if _, _, err := net.SplitHostPort(c.Server.GRPCAddress); err != nil {
		errs = append(errs, fmt.Errorf("server.grpc_address: %w", err))
	}
	if c.Server.MaxImageBytes <= 0 {
		errs = append(errs, errors.New("server.max_image_bytes must be positive"))
	}
	switch c.Database.Engine {
	case storage.EngineLevelDB:
		if c.Database.File == "" {
			errs = append(errs, errors.New("database.file is required for leveldb"))
		}
	case storage.EngineMemory:
	default:
		errs = append(errs, fmt.Errorf("database.engine: unknown engine %q", c.Database.Engine))
	}
	if c.Auth.Password == "" {
		errs = append(errs, errors.New("auth.password is required"))
	}
	if c.Auth.CookieStorage == "" {
		errs = append(errs, errors.New("auth.cookie_storage is required"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Flags command line overrides of the file settings
type Flags struct {
	Path         string
	Address      string
	GRPCAddress  string
	FileDatabase string
}

func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Path, "config", "c", DefaultPath, "configuration file")
	fs.StringVarP(&f.Address, "address", "a", "", "HTTP listen address, overrides server.address")
	fs.StringVar(&f.GRPCAddress, "grpc-address", "", "gRPC listen address, overrides server.grpc_address")
	fs.StringVarP(&f.FileDatabase, "file-database", "f", "", "database directory, overrides database.file")
}

// Load reads the configured file and applies the flags that were set
func (f *Flags) Load(fs *pflag.FlagSet) (*Config, error) {
	c, err := Load(f.Path)
	if err != nil {
		return nil, err
	}
	f.Apply(fs, c)
	return c, nil
}

func (f *Flags) Apply(fs *pflag.FlagSet, c *Config) {
	if fs.Changed("address") {
		c.Server.Address = f.Address
	}
	if fs.Changed("grpc-address") {
		c.Server.GRPCAddress = f.GRPCAddress
	}
	if fs.Changed("file-database") {
		c.Database.File = f.FileDatabase
	}
}
