package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

const (
	// EnvPath overrides the config file location.
	EnvPath = "GCIDSUM_CONFIG"
	// EnvOpts holds comma separated "key:value" overrides.
	EnvOpts = "GCIDSUM_OPTS"
)

// Config is the gcidsum configuration file.
type Config struct {
	configPath string
	ini        *ini.File
}

// VerboseConfig controls diagnostic logging.
type VerboseConfig struct {
	Level int // 0=quiet, 1=info, 2=debug
}

// ProgressConfig controls the progress bar drawn while hashing.
type ProgressConfig struct {
	Enabled bool
	MinSize int64 // files smaller than this get no bar
}

// DigestConfig controls the digest read loop.
type DigestConfig struct {
	Buffer int // read buffer in bytes
}

// AllConfig represents all configuration options
type AllConfig struct {
	Verbose  *VerboseConfig
	Progress *ProgressConfig
	Digest   *DigestConfig
}

// DefaultPath returns $GCIDSUM_CONFIG, or gcidsum/config.ini below the
// user config directory.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gcidsum", "config.ini")
}

// Default returns a configuration holding only defaults.
func Default() *Config {
	return &Config{ini: ini.Empty()}
}

// Load reads the config file at path. A missing file is not an error and
// is not created; the defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	cfg := &Config{configPath: path}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg.ini = ini.Empty()
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile
	return cfg, nil
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{Level: 0}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
	}

	return verboseConfig
}

// GetProgressConfig returns the progress configuration
func (c *Config) GetProgressConfig() *ProgressConfig {
	progressConfig := &ProgressConfig{
		Enabled: false,
		MinSize: 64 << 20,
	}

	if c.ini.HasSection("progress") {
		section := c.ini.Section("progress")
		if section.HasKey("enabled") {
			if enabled, err := section.Key("enabled").Bool(); err == nil {
				progressConfig.Enabled = enabled
			}
		}
		if section.HasKey("min_size") {
			if size, err := ParseHumanSize(section.Key("min_size").String()); err == nil {
				progressConfig.MinSize = size
			}
		}
	}

	return progressConfig
}

// GetDigestConfig returns the digest configuration
func (c *Config) GetDigestConfig() *DigestConfig {
	digestConfig := &DigestConfig{Buffer: 2 << 20}

	if c.ini.HasSection("digest") {
		section := c.ini.Section("digest")
		if section.HasKey("buffer") {
			if size, err := ParseHumanSize(section.Key("buffer").String()); err == nil && size <= 1<<30 {
				digestConfig.Buffer = int(size)
			}
		}
	}

	return digestConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Verbose:  c.GetVerboseConfig(),
		Progress: c.GetProgressConfig(),
		Digest:   c.GetDigestConfig(),
	}
}

// Path returns the file the configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.configPath
}

// ApplyOverrides applies "key:value" overrides such as "level:2",
// "progress:true", "min_size:16M" or "buffer:4M".
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		override = strings.TrimSpace(override)
		if override == "" {
			continue
		}
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "level":
			if _, err := strconv.Atoi(value); err != nil {
				return fmt.Errorf("invalid verbose level '%s'", value)
			}
			c.ini.Section("verbose").Key("level").SetValue(value)
		case "progress":
			if _, err := strconv.ParseBool(value); err != nil {
				return fmt.Errorf("invalid progress flag '%s'", value)
			}
			c.ini.Section("progress").Key("enabled").SetValue(value)
		case "min_size":
			if _, err := ParseHumanSize(value); err != nil {
				return err
			}
			c.ini.Section("progress").Key("min_size").SetValue(value)
		case "buffer":
			if _, err := ParseHumanSize(value); err != nil {
				return err
			}
			c.ini.Section("digest").Key("buffer").SetValue(value)
		default:
			return fmt.Errorf("unsupported override key '%s' (supported: level, progress, min_size, buffer)", key)
		}
	}

	return nil
}

// ParseHumanSize parses sizes such as "512", "64k", "2M" or "1G".
func ParseHumanSize(sizeStr string) (int64, error) {
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))

	numEnd := len(sizeStr)
	for i, char := range sizeStr {
		if (char < '0' || char > '9') && char != '.' {
			numEnd = i
			break
		}
	}
	numPart, suffix := sizeStr[:numEnd], sizeStr[numEnd:]
	if numPart == "" {
		return 0, fmt.Errorf("no numeric part in size string: %s", sizeStr)
	}

	num, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric part in size string %s: %w", sizeStr, err)
	}

	var multiplier float64
	switch suffix {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1 << 10
	case "M", "MB":
		multiplier = 1 << 20
	case "G", "GB":
		multiplier = 1 << 30
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	result := int64(num * multiplier)
	if result <= 0 {
		return 0, fmt.Errorf("size must be positive: %s", sizeStr)
	}
	return result, nil
}
