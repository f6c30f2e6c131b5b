package scene

import (
	"fmt"
	"io"

	jlconfig "github.com/JeremyLoy/config"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a scene. Zero fields keep the defaults.
type Config struct {
	// InitialCapacity presizes entity and dense storage buffers.
	InitialCapacity int `yaml:"initial_capacity"`
	// LogLevel is a zap level name; empty leaves logging disabled.
	LogLevel string `yaml:"log_level"`
	// StorageOverrides replaces the declared storage kind of component types, keyed
	// by full or short type name, with "dense" or "sparse".
	StorageOverrides map[string]string `yaml:"storage_overrides"`
	// MetricsAddress is a statsd address; empty disables metrics.
	MetricsAddress   string `yaml:"metrics_address"`
	MetricsNamespace string `yaml:"metrics_namespace"`
	// MaxServices bounds the service registry; zero is unbounded.
	MaxServices int `yaml:"max_services"`
}

const defaultInitialCapacity = 256

// LoadConfig decodes a YAML document.
func LoadConfig(r io.Reader) (Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode scene config: %w", err)
	}
	return c, c.validate()
}

// envConfig is the subset of Config that environment variables can carry.
type envConfig struct {
	InitialCapacity  int    `config:"SCENE_INITIAL_CAPACITY"`
	LogLevel         string `config:"SCENE_LOG_LEVEL"`
	MetricsAddress   string `config:"SCENE_METRICS_ADDRESS"`
	MetricsNamespace string `config:"SCENE_METRICS_NAMESPACE"`
	MaxServices      int    `config:"SCENE_MAX_SERVICES"`
}

// ConfigFromEnv reads the SCENE_* environment variables.
func ConfigFromEnv() (Config, error) {
	var e envConfig
	if err := jlconfig.FromEnv().To(&e); err != nil {
		return Config{}, fmt.Errorf("read scene config from env: %w", err)
	}
	c := Config{
		InitialCapacity:  e.InitialCapacity,
		LogLevel:         e.LogLevel,
		MetricsAddress:   e.MetricsAddress,
		MetricsNamespace: e.MetricsNamespace,
		MaxServices:      e.MaxServices,
	}
	return c, c.validate()
}

// Merge returns c with every non zero field of other applied on top.
func (c Config) Merge(other Config) Config {
	if other.InitialCapacity != 0 {
		c.InitialCapacity = other.InitialCapacity
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.MetricsAddress != "" {
		c.MetricsAddress = other.MetricsAddress
	}
	if other.MetricsNamespace != "" {
		c.MetricsNamespace = other.MetricsNamespace
	}
	if other.MaxServices != 0 {
		c.MaxServices = other.MaxServices
	}
	if len(other.StorageOverrides) > 0 {
		merged := make(map[string]string, len(c.StorageOverrides)+len(other.StorageOverrides))
		for k, v := range c.StorageOverrides {
			merged[k] = v
		}
		for k, v := range other.StorageOverrides {
			merged[k] = v
		}
		c.StorageOverrides = merged
	}
	return c
}

func (c Config) validate() error {
	if c.InitialCapacity < 0 {
		return fmt.Errorf("initial_capacity must not be negative, got %d", c.InitialCapacity)
	}
	if c.MaxServices < 0 {
		return fmt.Errorf("max_services must not be negative, got %d", c.MaxServices)
	}
	for name, kind := range c.StorageOverrides {
		if _, err := ParseStorageKind(kind); err != nil {
			return fmt.Errorf("storage override for %s: %w", name, err)
		}
	}
	return nil
}

func (c Config) storageOverride(ct ComponentType) (StorageKind, bool) {
	raw, ok := c.StorageOverrides[ct.Name]
	if !ok {
		raw, ok = c.StorageOverrides[shortName(ct.Name)]
	}
	if !ok {
		return 0, false
	}
	kind, err := ParseStorageKind(raw)
	return kind, err == nil
}
