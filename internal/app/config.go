package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"didclient/internal/store"
)

// Credential store backends.
const (
	BackendFile      = "file"
	BackendEncrypted = "encrypted"
	BackendRedis     = "redis"
	BackendMemory    = "memory"
)

const (
	DefaultServerURL = "http://127.0.0.1:8000"
	DefaultTimeout   = 30 * time.Second
	// ConfigFile is looked up in the home directory when no path is given.
	ConfigFile = "config.yaml"
	envPrefix  = "DIDCLIENT_"
	keyDelim   = "."
)

// Config holds runtime wiring options for building the app.
type Config struct {
	ServerURL string        `yaml:"server_url"`
	Home      string        `yaml:"home"` // e.g. $HOME/.didclient
	Timeout   time.Duration `yaml:"timeout"`
	Store     StoreConfig   `yaml:"store"`
	Log       LogConfig     `yaml:"log"`
}

// StoreConfig selects and configures the credential store.
type StoreConfig struct {
	Backend    string      `yaml:"backend"`
	Passphrase string      `yaml:"passphrase"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Key      string        `yaml:"key"`
	TTL      time.Duration `yaml:"ttl"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultHome returns ~/.didclient.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".didclient"), nil
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := DefaultHome()
	if err != nil {
		home = ".didclient"
	}
	return Config{
		ServerURL: DefaultServerURL,
		Home:      home,
		Timeout:   DefaultTimeout,
		Store: StoreConfig{
			Backend: BackendFile,
			Redis:   RedisConfig{Addr: "127.0.0.1:6379", Key: store.DefaultRedisKey},
		},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

// Load layers, lowest first: the defaults, the YAML file at path, DIDCLIENT_*
// environment variables and any flags explicitly set in flags (nil means
// none). An empty path means <home>/config.yaml, where home already reflects
// the environment and flags; that file may be absent. An explicit path must
// exist.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	explicit := path != ""
	if !explicit {
		pre := koanf.New(keyDelim)
		if err := loadLayers(pre, "", false, flags); err != nil {
			return Config{}, err
		}
		path = filepath.Join(pre.String("home"), ConfigFile)
	}

	k := koanf.New(keyDelim)
	if err := loadLayers(k, path, explicit, flags); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func loadLayers(k *koanf.Koanf, path string, required bool, flags *pflag.FlagSet) error {
	if err := k.Load(confmap.Provider(defaults(), keyDelim), nil); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}
	if err := k.Load(env.Provider(envPrefix, keyDelim, envKey), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	if flags != nil {
		p := posflag.ProviderWithFlag(flags, keyDelim, k, flagKey)
		if err := k.Load(p, nil); err != nil {
			return fmt.Errorf("load flags: %w", err)
		}
	}
	return nil
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"server_url":           d.ServerURL,
		"home":                 d.Home,
		"timeout":              d.Timeout,
		"store.backend":        d.Store.Backend,
		"store.passphrase":     d.Store.Passphrase,
		"store.redis.addr":     d.Store.Redis.Addr,
		"store.redis.password": d.Store.Redis.Password,
		"store.redis.db":       d.Store.Redis.DB,
		"store.redis.key":      d.Store.Redis.Key,
		"store.redis.ttl":      d.Store.Redis.TTL,
		"log.level":            d.Log.Level,
		"log.format":           d.Log.Format,
	}
}

// envKeys maps DIDCLIENT_<NAME> to config keys. Other variables are ignored.
var envKeys = map[string]string{
	"SERVER_URL":     "server_url",
	"HOME":           "home",
	"TIMEOUT":        "timeout",
	"STORE":          "store.backend",
	"PASSPHRASE":     "store.passphrase",
	"REDIS_ADDR":     "store.redis.addr",
	"REDIS_PASSWORD": "store.redis.password",
	"REDIS_DB":       "store.redis.db",
	"REDIS_KEY":      "store.redis.key",
	"REDIS_TTL":      "store.redis.ttl",
	"LOG_LEVEL":      "log.level",
	"LOG_FORMAT":     "log.format",
}

func envKey(name string) string {
	return envKeys[strings.TrimPrefix(name, envPrefix)]
}

// flagKeys maps CLI flag names to config keys. Other flags are ignored.
var flagKeys = map[string]string{
	"home":       "home",
	"server":     "server_url",
	"store":      "store.backend",
	"passphrase": "store.passphrase",
	"log-level":  "log.level",
	"log-format": "log.format",
}

func flagKey(f *pflag.Flag) (string, any) {
	return flagKeys[f.Name], f.Value.String()
}

// Redacted returns a copy with secrets masked, for display.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	c.Store.Passphrase = mask(c.Store.Passphrase)
	c.Store.Redis.Password = mask(c.Store.Redis.Password)
	return c
}

// Validate checks the configuration before wiring.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.ServerURL, validation.Required),
		validation.Field(&c.Home, validation.Required),
		validation.Field(&c.Timeout, validation.Min(0)),
	); err != nil {
		return err
	}
	return c.Store.Validate()
}

// Validate checks the store section.
func (s StoreConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Backend, validation.Required,
			validation.In(BackendFile, BackendEncrypted, BackendRedis, BackendMemory)),
		validation.Field(&s.Redis, validation.By(func(any) error {
			if s.Backend == BackendRedis && s.Redis.Addr == "" {
				return errors.New("addr is required for the redis backend")
			}
			return nil
		})),
	)
}
