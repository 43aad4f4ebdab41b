// package config layers viewer configuration from defaults, an optional
// YAML file, and HUB360_ environment variables, highest priority last.
package config

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

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"hub360.yaml",
	"hub360.yml",
	"/etc/hub360/config.yaml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "HUB360_CONFIG"

// envPrefix is stripped from environment variables before mapping them to
// config keys: HUB360_API_BASE_URL becomes api.base_url.
const envPrefix = "HUB360_"

// APIConfig configures the tour API client.
type APIConfig struct {
	// BaseURL is the root of the tour API, e.g. https://tours.example.com.
	BaseURL string `koanf:"base_url" validate:"required,url"`
	// Timeout bounds a single API request.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// WindowConfig configures the viewer window.
type WindowConfig struct {
	Title  string `koanf:"title"`
	Width  int    `koanf:"width" validate:"gt=0"`
	Height int    `koanf:"height" validate:"gt=0"`
}

// ViewerConfig configures loop rates and input behavior.
type ViewerConfig struct {
	// TickRate is the state update rate in ticks per second.
	TickRate float64 `koanf:"tick_rate" validate:"gt=0"`
	// FrameLimit caps the render rate in frames per second, 0 for uncapped.
	FrameLimit float64 `koanf:"frame_limit" validate:"gte=0"`
	// SensorSmoothing is the orientation filter factor in (0, 1].
	SensorSmoothing float64 `koanf:"sensor_smoothing" validate:"gt=0,lte=1"`
	// PrefetchWorkers sizes the panorama prefetch pool, 0 for automatic.
	PrefetchWorkers int `koanf:"prefetch_workers" validate:"gte=0"`
	// Profiling enables frame statistics logging.
	Profiling bool `koanf:"profiling"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=console json"`
	Caller bool   `koanf:"caller"`
}

// Config is the root configuration.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Window  WindowConfig  `koanf:"window"`
	Viewer  ViewerConfig  `koanf:"viewer"`
	Logging LoggingConfig `koanf:"logging"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Window: WindowConfig{
			Title:  "hub360",
			Width:  1280,
			Height: 720,
		},
		Viewer: ViewerConfig{
			TickRate:        60,
			FrameLimit:      0,
			SensorSmoothing: 0.15,
			PrefetchWorkers: 0,
			Profiling:       false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration from defaults, the first config file found,
// and HUB360_ environment variables.
//
// Returns:
//   - *Config: the validated configuration
//   - error: error if a layer fails to load or validation fails
func Load() (*Config, error) {
	return loadFrom(findConfigFile())
}

// LoadFile builds the configuration using the given config file instead of
// the search paths. An empty path skips the file layer.
//
// Parameters:
//   - path: the config file path
//
// Returns:
//   - *Config: the validated configuration
//   - error: error if a layer fails to load or validation fails
func LoadFile(path string) (*Config, error) {
	return loadFrom(path)
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envTransform maps HUB360_API_BASE_URL to api.base_url: the prefix is
// stripped, the name lowercased, and the first underscore separates the
// section from the key.
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// findConfigFile returns the explicit HUB360_CONFIG path, or the first
// existing default path, or empty when no config file exists.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
