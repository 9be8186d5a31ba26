package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
)

var (
	config     *EngineConfig
	configOnce sync.Once
	configErr  error
	configMu   sync.RWMutex
)

// Load loads the configuration from the specified YAML file once and caches it globally.
func Load(configPath string) (*EngineConfig, error) {
	configOnce.Do(func() {
		cfg, err := Parse(configPath)
		if err != nil {
			configErr = err
			return
		}
		configMu.Lock()
		config = cfg
		configMu.Unlock()
	})
	if configErr != nil {
		return nil, configErr
	}
	configMu.RLock()
	defer configMu.RUnlock()
	return config, nil
}

// Parse parses the YAML config file without touching the global cache.
func Parse(configPath string) (*EngineConfig, error) {
	// Resolve symlinks to handle mounted config files
	resolved, _ := filepath.EvalSymlinks(configPath)
	if resolved == "" {
		resolved = configPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &EngineConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply the default detector registry if not specified in config.
	// A user-supplied detectors list completely replaces the defaults.
	if len(cfg.Detectors) == 0 {
		cfg.Detectors = DefaultProfiles()
	}
	cfg.Cascade.ApplyDefaults()

	if err := validateConfigStructure(cfg); err != nil {
		return nil, err
	}

	logging.Infof("Config loaded: detectors=%d, cascade_enabled=%v", len(cfg.Detectors), cfg.Cascade.Enabled)
	return cfg, nil
}

// Default returns a configuration with the built-in registry and cascade defaults,
// used when no config file is provided.
func Default() *EngineConfig {
	cfg := &EngineConfig{
		Detectors: DefaultProfiles(),
		Cascade:   CascadeConfig{Enabled: true},
	}
	cfg.Cascade.ApplyDefaults()
	return cfg
}

// Replace replaces the globally cached config. It is safe for concurrent readers.
func Replace(newCfg *EngineConfig) {
	configMu.Lock()
	config = newCfg
	configErr = nil
	configMu.Unlock()
}

// Get returns the current configuration
func Get() *EngineConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}
