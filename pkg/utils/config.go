package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "MOVIEHUB_CONFIG"

var DefaultConfigPaths = []string{
	"moviehub.yaml",
	"moviehub.yml",
	"/etc/moviehub/config.yaml",
}

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr" validate:"required"`
	GRPCAddr          string        `koanf:"grpc_addr" validate:"required"`
	TCPAddr           string        `koanf:"tcp_addr"` // empty disables TCP sessions
	Mode              string        `koanf:"mode" validate:"oneof=debug release test"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gt=0"`

	// SessionRate caps frames per second on one session; 0 disables.
	SessionRate  float64 `koanf:"session_rate" validate:"min=0"`
	SessionBurst int     `koanf:"session_burst" validate:"min=0"`
}

type DataConfig struct {
	Source      string `koanf:"source" validate:"oneof=csv sqlite"`
	Dir         string `koanf:"dir" validate:"required_if=Source csv"`
	DBPath      string `koanf:"db_path" validate:"required_if=Source sqlite"`
	WeightsFile string `koanf:"weights_file"`
}

type RecommendConfig struct {
	Limit          int     `koanf:"limit" validate:"min=1,max=100"`
	Workers        int     `koanf:"workers" validate:"min=0"`
	GenreWeight    float64 `koanf:"genre_weight" validate:"min=0"`
	ActorWeight    float64 `koanf:"actor_weight" validate:"min=0"`
	DirectorWeight float64 `koanf:"director_weight" validate:"min=0"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			GRPCAddr:          ":9090",
			TCPAddr:           ":7070",
			Mode:              "release",
			TrustedProxies:    []string{"127.0.0.1"},
			ShutdownTimeout:   10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			SessionRate:       20,
			SessionBurst:      40,
		},
		Data: DataConfig{
			Source: "csv",
			Dir:    "data",
			DBPath: "data/catalog.db",
		},
		Recommend: RecommendConfig{
			Limit:          5,
			Workers:        0,
			GenreWeight:    1.0,
			ActorWeight:    0.5,
			DirectorWeight: 0.75,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envKeys maps MOVIEHUB_* variables to config keys.
var envKeys = map[string]string{
	"moviehub_addr":                "server.addr",
	"moviehub_grpc_addr":           "server.grpc_addr",
	"moviehub_tcp_addr":            "server.tcp_addr",
	"moviehub_mode":                "server.mode",
	"moviehub_trusted_proxies":     "server.trusted_proxies",
	"moviehub_shutdown_timeout":    "server.shutdown_timeout",
	"moviehub_read_header_timeout": "server.read_header_timeout",
	"moviehub_session_rate":        "server.session_rate",
	"moviehub_session_burst":       "server.session_burst",
	"moviehub_data_source":         "data.source",
	"moviehub_data_dir":            "data.dir",
	"moviehub_db_path":             "data.db_path",
	"moviehub_weights_file":        "data.weights_file",
	"moviehub_recommend_limit":     "recommend.limit",
	"moviehub_workers":             "recommend.workers",
	"moviehub_genre_weight":        "recommend.genre_weight",
	"moviehub_actor_weight":        "recommend.actor_weight",
	"moviehub_director_weight":     "recommend.director_weight",
	"moviehub_log_level":           "logging.level",
	"moviehub_log_format":          "logging.format",
}

// LoadConfig applies defaults, then the YAML file if one is found, then
// MOVIEHUB_* environment variables, and validates the result.
func LoadConfig() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("MOVIEHUB_", ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	// comma separated env value
	if v, ok := k.Get("server.trusted_proxies").(string); ok {
		var proxies []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				proxies = append(proxies, p)
			}
		}
		if err := k.Set("server.trusted_proxies", proxies); err != nil {
			return Config{}, fmt.Errorf("set trusted proxies: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// envTransform returns "" for unknown variables, which koanf skips.
func envTransform(key string) string {
	return envKeys[strings.ToLower(key)]
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
