/*
Package config manages TOML config for fuzzyserve.

The file has four sections: [match] mirrors fuzzy.Options, [server] bounds IPC
requests and sizes the result cache, [dict] controls corpus loading and [cli]
holds defaults for the interactive mode. A file that does not decode cleanly
is re-read as a generic map and every field that still parses is kept.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/fuzzyserve/internal/utils"
	"github.com/bastiangx/fuzzyserve/pkg/fuzzy"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Match  MatchConfig  `toml:"match"`
	Server ServerConfig `toml:"server"`
	Dict   DictConfig   `toml:"dict"`
	CLI    CliConfig    `toml:"cli"`
}

// MatchConfig holds the matching options applied to every search.
type MatchConfig struct {
	IgnoreCase          bool    `toml:"ignore_case"`
	IgnoreSymbols       bool    `toml:"ignore_symbols"`
	NormalizeWhitespace bool    `toml:"normalize_whitespace"`
	UseDamerau          bool    `toml:"use_damerau"`
	UseSellers          bool    `toml:"use_sellers"`
	SeparatedUnicode    bool    `toml:"separated_unicode"`
	SortBy              string  `toml:"sort_by"`
	Threshold           float64 `toml:"threshold"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
	MaxQueryLen  int `toml:"max_query_len"`
	CacheSize    int `toml:"cache_size"`
}

// DictConfig holds corpus loading options.
type DictConfig struct {
	MaxEntries int  `toml:"max_entries"`
	Dedupe     bool `toml:"dedupe"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit  int  `toml:"default_limit"`
	ShowMatchData bool `toml:"show_match_data"`
}

// Options converts the match section into search options for multi-key
// corpus entries. An unknown sort_by or a threshold outside [0, 10] falls
// back to the default for that field.
func (m MatchConfig) Options() fuzzy.Options[[]string] {
	opts := fuzzy.DefaultMultiOptions()
	opts.IgnoreCase = m.IgnoreCase
	opts.IgnoreSymbols = m.IgnoreSymbols
	opts.NormalizeWhitespace = m.NormalizeWhitespace
	opts.UseDamerau = m.UseDamerau
	opts.UseSellers = m.UseSellers
	opts.UseSeparatedUnicode = m.SeparatedUnicode

	switch m.SortBy {
	case fuzzy.BestMatch.String():
		opts.SortBy = fuzzy.BestMatch
	case fuzzy.InsertOrder.String():
		opts.SortBy = fuzzy.InsertOrder
	default:
		log.Warnf("Unknown sort_by %q, using %s", m.SortBy, opts.SortBy)
	}

	if m.Threshold >= 0 && m.Threshold <= fuzzy.ExactMatchScore {
		opts.Threshold = m.Threshold
	} else {
		log.Warnf("Threshold %v out of range, using %v", m.Threshold, opts.Threshold)
	}
	return opts
}

const appName = "fuzzyserve"

// GetConfigDir returns the first writable config directory, in the order
// of utils.ConfigDirCandidates, creating it when missing. Without a home
// directory or any writable candidate it falls back to the executable dir.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	for _, dir := range utils.ConfigDirCandidates(homeDir, appName) {
		if status := utils.CheckDirStatus(dir); status.Writable {
			return dir, nil
		}
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
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/fuzzyserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
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

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	opts := fuzzy.DefaultOptions()
	return &Config{
		Match: MatchConfig{
			IgnoreCase:          opts.IgnoreCase,
			IgnoreSymbols:       opts.IgnoreSymbols,
			NormalizeWhitespace: opts.NormalizeWhitespace,
			UseDamerau:          opts.UseDamerau,
			UseSellers:          opts.UseSellers,
			SeparatedUnicode:    opts.UseSeparatedUnicode,
			SortBy:              opts.SortBy.String(),
			Threshold:           opts.Threshold,
		},
		Server: ServerConfig{
			DefaultLimit: 10,
			MaxLimit:     64,
			MaxQueryLen:  256,
			CacheSize:    512,
		},
		Dict: DictConfig{
			MaxEntries: 0,
			Dedupe:     true,
		},
		CLI: CliConfig{
			DefaultLimit:  10,
			ShowMatchData: true,
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

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if matchSection, ok := utils.ExtractSection(tempConfig, "match"); ok {
		extractMatchConfig(matchSection, &config.Match)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

// extractMatchConfig extracts match options from a map
func extractMatchConfig(data map[string]any, match *MatchConfig) {
	bools := map[string]*bool{
		"ignore_case":          &match.IgnoreCase,
		"ignore_symbols":       &match.IgnoreSymbols,
		"normalize_whitespace": &match.NormalizeWhitespace,
		"use_damerau":          &match.UseDamerau,
		"use_sellers":          &match.UseSellers,
		"separated_unicode":    &match.SeparatedUnicode,
	}
	for key, dst := range bools {
		if val, ok := utils.ExtractBool(data, key); ok {
			*dst = val
		}
	}
	if val, ok := utils.ExtractString(data, "sort_by"); ok {
		match.SortBy = val
	}
	if val, ok := utils.ExtractFloat64(data, "threshold"); ok {
		match.Threshold = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

// extractDictConfig extracts dictionary configuration from a map
func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractInt64(data, "max_entries"); ok {
		dict.MaxEntries = val
	}
	if val, ok := utils.ExtractBool(data, "dedupe"); ok {
		dict.Dedupe = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_match_data"); ok {
		cli.ShowMatchData = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
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

// Limit clamps a requested result count to the server bounds.
// Zero or negative requests get the default limit.
func (s ServerConfig) Limit(requested int) int {
	limit := requested
	if limit < 1 {
		limit = s.DefaultLimit
	}
	if s.MaxLimit > 0 && limit > s.MaxLimit {
		limit = s.MaxLimit
	}
	return max(limit, 1)
}
