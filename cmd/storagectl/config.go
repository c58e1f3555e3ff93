package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "STORAGECTL"

	// Config keys. Command flags are bound to the same keys.
	cfgStringStorage   = "string.storage"
	cfgStringInlineCap = "string.inline_cap"
	cfgStringArenaSize = "string.arena_size"
	cfgStringMetrics   = "string.metrics"
	cfgListStorage     = "list.storage"
	cfgListInlineCap   = "list.inline_cap"
	cfgListPageSize    = "list.page_size"
	cfgListCount       = "list.count"
	cfgListRemove      = "list.remove"
)

// cfg holds flags, environment and config file values.
var cfg = newConfig()

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault(cfgStringStorage, "heap")
	v.SetDefault(cfgStringInlineCap, 32)
	v.SetDefault(cfgStringArenaSize, 4096)
	v.SetDefault(cfgListStorage, "paged")
	v.SetDefault(cfgListInlineCap, 64)
	v.SetDefault(cfgListPageSize, 64)
	v.SetDefault(cfgListCount, 10)
	v.SetDefault(cfgListRemove, 0)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads path, or config.yaml from ~/.storagectl when path is empty.
// A missing default config file is not an error.
func loadConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(filepath.Join(home, ".storagectl"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
