/*
Package config manages TOML config for wordassist.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/wordassist/internal/utils"
	"github.com/bastiangx/wordassist/pkg/suggest"
	"github.com/charmbracelet/log"
)

const (
	// BackendJSON stores models as two JSON files.
	BackendJSON = "json"
	// BackendSQLite stores models in one SQLite database.
	BackendSQLite = "sqlite"
)

// Config holds the entire config structure
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Store  StoreConfig  `toml:"store"`
	Dict   DictConfig   `toml:"dict"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// EngineConfig has suggestion engine options.
type EngineConfig struct {
	WordLimit      int  `toml:"word_limit"`
	SentenceLimit  int  `toml:"sentence_limit"`
	MaxDistance    int  `toml:"max_distance"`
	CorpusCapacity int  `toml:"corpus_capacity"`
	CacheSize      int  `toml:"cache_size"`
	MatchCase      bool `toml:"match_case"`
}

// StoreConfig holds persistence options.
type StoreConfig struct {
	Backend        string `toml:"backend"`
	Dir            string `toml:"dir"`
	SaveDebounceMs int    `toml:"save_debounce_ms"`
}

// DictConfig holds dictionary and lexicon options.
type DictConfig struct {
	WordList        string `toml:"word_list"`
	Synonyms        string `toml:"synonyms"`
	DisableSynonyms bool   `toml:"disable_synonyms"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLine      int  `toml:"max_line"`
	WatchConfig  bool `toml:"watch_config"`
	ReportTiming bool `toml:"report_timing"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	RawMode    bool `toml:"raw_mode"`
	ShowTiming bool `toml:"show_timing"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordassist")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordassist")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordassist/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			WordLimit:      suggest.DefaultWordLimit,
			SentenceLimit:  suggest.DefaultSentenceLimit,
			MaxDistance:    2,
			CorpusCapacity: 1000,
			CacheSize:      1024,
			MatchCase:      false,
		},
		Store: StoreConfig{
			Backend:        BackendJSON,
			Dir:            "",
			SaveDebounceMs: 0,
		},
		Dict: DictConfig{
			WordList:        "",
			Synonyms:        "",
			DisableSynonyms: false,
		},
		Server: ServerConfig{
			MaxLine:      4096,
			WatchConfig:  true,
			ReportTiming: true,
		},
		CLI: CliConfig{
			RawMode:    true,
			ShowTiming: false,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. A file that does not fully parse keeps
// every value that can still be recovered.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file section by section
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "engine"); ok {
		extractEngineConfig(section, &config.Engine)
	}
	if section, ok := utils.ExtractSection(tempConfig, "store"); ok {
		extractStoreConfig(section, &config.Store)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractEngineConfig(data map[string]any, engine *EngineConfig) {
	if val, ok := utils.ExtractInt64(data, "word_limit"); ok {
		engine.WordLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "sentence_limit"); ok {
		engine.SentenceLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_distance"); ok {
		engine.MaxDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "corpus_capacity"); ok {
		engine.CorpusCapacity = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		engine.CacheSize = val
	}
	if val, ok := utils.ExtractBool(data, "match_case"); ok {
		engine.MatchCase = val
	}
}

func extractStoreConfig(data map[string]any, st *StoreConfig) {
	if val, ok := utils.ExtractString(data, "backend"); ok {
		st.Backend = val
	}
	if val, ok := utils.ExtractString(data, "dir"); ok {
		st.Dir = val
	}
	if val, ok := utils.ExtractInt64(data, "save_debounce_ms"); ok {
		st.SaveDebounceMs = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "word_list"); ok {
		dict.WordList = val
	}
	if val, ok := utils.ExtractString(data, "synonyms"); ok {
		dict.Synonyms = val
	}
	if val, ok := utils.ExtractBool(data, "disable_synonyms"); ok {
		dict.DisableSynonyms = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_line"); ok {
		server.MaxLine = val
	}
	if val, ok := utils.ExtractBool(data, "watch_config"); ok {
		server.WatchConfig = val
	}
	if val, ok := utils.ExtractBool(data, "report_timing"); ok {
		server.ReportTiming = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractBool(data, "raw_mode"); ok {
		cli.RawMode = val
	}
	if val, ok := utils.ExtractBool(data, "show_timing"); ok {
		cli.ShowTiming = val
	}
}

// EngineOptions maps the config onto engine options. The store is opened
// by the caller.
func (c *Config) EngineOptions() suggest.Options {
	return suggest.Options{
		DictPath:        c.Dict.WordList,
		LexiconPath:     c.Dict.Synonyms,
		DisableSynonyms: c.Dict.DisableSynonyms,
		MaxDistance:     c.Engine.MaxDistance,
		CacheSize:       c.Engine.CacheSize,
		Capacity:        c.Engine.CorpusCapacity,
		WordLimit:       c.Engine.WordLimit,
		SentenceLimit:   c.Engine.SentenceLimit,
		MatchCase:       c.Engine.MatchCase,
		SaveDebounce:    time.Duration(c.Store.SaveDebounceMs) * time.Millisecond,
	}
}

// StoreDir returns the configured store directory, or data/ beside the config file.
func (c *Config) StoreDir(configPath string) string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	if configPath == "" {
		return "data"
	}
	return filepath.Join(filepath.Dir(configPath), "data")
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
