package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/S0me0neR0man/homebox/internal/storage"
)

const sample = `
server:
  address: "0.0.0.0:8080"
  max_image_bytes: 1024
database:
  file: "/var/lib/homebox"
auth:
  password: "hunter2"
logging:
  level: debug
  development: true
`

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	require.Equal(t, "0.0.0.0:8080", c.Server.Address)
	require.Equal(t, DefaultGRPCAddress, c.Server.GRPCAddress, "unset keys keep defaults")
	require.Equal(t, int64(1024), c.Server.MaxImageBytes)
	require.Equal(t, storage.Options{Engine: storage.EngineLevelDB, Path: "/var/lib/homebox"}, c.StorageOptions())
	require.Equal(t, "hunter2", c.Auth.Password)
	require.Equal(t, DefaultCookieStorage, c.Auth.CookieStorage)
	require.Equal(t, Logging{Level: "debug", Development: true}, c.Logging)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Garbage(t *testing.T) {
	_, err := Parse([]byte("server: [unclosed"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"memory engine needs no file", func(c *Config) { c.Database.Engine = storage.EngineMemory; c.Database.File = "" }, true},
		{"no password", func(c *Config) { c.Auth.Password = "" }, false},
		{"bad address", func(c *Config) { c.Server.Address = "nowhere" }, false},
		{"bad grpc address", func(c *Config) { c.Server.GRPCAddress = "" }, false},
		{"zero image limit", func(c *Config) { c.Server.MaxImageBytes = 0 }, false},
		{"unknown engine", func(c *Config) { c.Database.Engine = "rocksdb" }, false},
		{"leveldb without file", func(c *Config) { c.Database.File = "" }, false},
		{"no cookie storage", func(c *Config) { c.Auth.CookieStorage = "" }, false},
		{"unknown level", func(c *Config) { c.Logging.Level = "trace" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.Auth.Password = "secret"
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestFlags_Override(t *testing.T) {
	path := writeConfig(t, sample)

	var f Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Register(fs)
	require.NoError(t, fs.Parse([]string{"--config", path, "--grpc-address", ":9999", "-f", "/tmp/db"}))

	c, err := f.Load(fs)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", c.Server.Address, "unset flag leaves the file value")
	require.Equal(t, ":9999", c.Server.GRPCAddress)
	require.Equal(t, "/tmp/db", c.Database.File)
}
