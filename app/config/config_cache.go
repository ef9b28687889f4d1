package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/staalberg/facetnav/app/facet"
)

type ConfigCache struct {
	configDir string
	registry  facet.Registry
	cache     map[string]*Config
	mu        sync.RWMutex
}

func NewConfigCache(configDir string) *ConfigCache {
	return &ConfigCache{
		configDir: configDir,
		registry:  facet.DefaultRegistry(),
		cache:     make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.configDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.configDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive repository alias from filename (remove .yml extension)
		fileName := filepath.Base(file)
		alias := strings.TrimSuffix(fileName, ".yml")

		config, err := cc.LoadConfig(alias)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Repository configuration loaded", "repo", alias, "enabled", config.Settings.Enabled, "facets", len(config.Facets))
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(alias string) (*Config, error) {
	configFile := cc.getConfigFilePath(alias)
	config, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	config.Alias = alias

	if err := cc.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[config.Alias] = config

	return config, nil
}

func (cc *ConfigCache) GetConfig(alias string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	config, ok := cc.cache[alias]
	if !ok {
		return nil, fmt.Errorf("repository config with alias '%s' not found", alias)
	}
	return config, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) Registry() facet.Registry {
	return cc.registry
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &config, nil
}

func (cc *ConfigCache) validateConfig(config *Config) error {
	if config.Alias == "" {
		return fmt.Errorf("repository alias is required")
	}
	if config.Title == "" {
		return fmt.Errorf("repository title is required")
	}
	if config.URL == "" {
		return fmt.Errorf("repository url is required")
	}
	if len(config.Facets) == 0 {
		return fmt.Errorf("at least one facet is required")
	}

	for i, fc := range config.Facets {
		if fc.Identity == "" {
			return fmt.Errorf("facet at index %d: identity is required", i)
		}
		for _, strategy := range []string{fc.Selector, fc.Key, fc.Identificator} {
			if strategy == "" {
				continue
			}
			if _, ok := facet.LookupFunc(facet.FuncID(strategy)); !ok {
				return fmt.Errorf("facet at index %d: unknown classifier strategy '%s'", i, strategy)
			}
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(alias string) string {
	return filepath.Join(cc.configDir, alias+".yml")
}
