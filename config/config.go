// Package config is the ambient configuration layer: a plain validated
// struct and a JSON loader, grounded on node/config.go's Config/
// DefaultConfig/ValidateConfig -- no framework, just a struct and functions.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opchain/burnops"
)

// Config is everything the CLI harness (component J) needs to open a
// chainstate store and construct a burnops.BurnchainParams.
type Config struct {
	Network               string `json:"network"`
	DataDir               string `json:"data_dir"`
	ConsensusHashLifetime uint64 `json:"consensus_hash_lifetime"`
	LogLevel              string `json:"log_level"`
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// DefaultDataDir mirrors node/config.go's DefaultDataDir, renamed to this
// module's own dotdir.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".burnops"
	}
	return filepath.Join(home, ".burnops")
}

// Default returns the out-of-the-box config for local/dev use.
func Default() Config {
	return Config{
		Network:               "devnet",
		DataDir:               DefaultDataDir(),
		ConsensusHashLifetime: 24,
		LogLevel:              "info",
	}
}

// Load reads a JSON config file, falling back to Default for any zero
// field not present in the file.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied via CLI flag, not user input.
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cfg is sane, mirroring node/config.go's ValidateConfig.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Network) == "" {
		return errors.New("config: network is required")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("config: data_dir is required")
	}
	if cfg.ConsensusHashLifetime == 0 {
		return errors.New("config: consensus_hash_lifetime must be > 0")
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		return fmt.Errorf("config: invalid log_level %q", cfg.LogLevel)
	}
	return nil
}

// Params projects cfg down to the subset burnops.BurnchainParams needs.
func (cfg Config) Params() burnops.BurnchainParams {
	return burnops.BurnchainParams{
		Network:               cfg.Network,
		ConsensusHashLifetime: cfg.ConsensusHashLifetime,
	}
}
