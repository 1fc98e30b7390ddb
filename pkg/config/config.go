package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for flowdev
type Config struct {
	Resources ResourcesConfig `mapstructure:"resources"`
	Sync      SyncConfig      `mapstructure:"sync"`
}

// ResourcesConfig holds resource-aggregation options
type ResourcesConfig struct {
	DataDir      string `mapstructure:"data_dir"`      // output collections directory
	OrphansDir   string `mapstructure:"orphans_dir"`   // orphan collections directory
	Indent       string `mapstructure:"indent"`        // JSON indent for output files
	LanguagesMap string `mapstructure:"languages_map"` // language map file, relative to plugin root
}

// SyncConfig holds directory-sync defaults
type SyncConfig struct {
	RulesFile   string `mapstructure:"rules_file"`  // sync rule file, relative to plugin root
	Concurrency int    `mapstructure:"concurrency"` // max parallel file copies
}

var defaultConfig = Config{
	Resources: ResourcesConfig{
		DataDir:      "db/data",
		OrphansDir:   "db/orphans",
		Indent:       "    ",
		LanguagesMap: "resources/languages.json",
	},
	Sync: SyncConfig{
		RulesFile:   ".flowdev/sync.yaml",
		Concurrency: 8,
	},
}

// LoadConfig loads configuration from defaults, an optional .flowdev.yaml in
// the working directory, and FLOWDEV_* environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("resources.data_dir", defaultConfig.Resources.DataDir)
	v.SetDefault("resources.orphans_dir", defaultConfig.Resources.OrphansDir)
	v.SetDefault("resources.indent", defaultConfig.Resources.Indent)
	v.SetDefault("resources.languages_map", defaultConfig.Resources.LanguagesMap)
	v.SetDefault("sync.rules_file", defaultConfig.Sync.RulesFile)
	v.SetDefault("sync.concurrency", defaultConfig.Sync.Concurrency)

	v.SetConfigName(".flowdev")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("FLOWDEV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; defaults apply when absent
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	return &config, nil
}
