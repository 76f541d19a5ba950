// Package config loads the tunables for the engine's ambient concerns
// (block sizing, cache capacity, flush threshold) from a YAML file in the
// data directory, falling back to compiled-in
// defaults when the file is absent — the same default-if-missing shape the
// rest of the codebase uses for its own settings, just YAML instead of
// hand-rolled JSON.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the core touches. Nothing here is a durability
// knob (WAL/fsync/compaction are out of scope); it governs block framing,
// the block cache, and when an active memtable is rotated for flush.
type Config struct {
	Block struct {
		// TargetSize bounds the encoded size of a single data block, in
		// bytes. The first entry of a block is always admitted regardless.
		TargetSize uint64 `yaml:"target_size"`
	} `yaml:"block"`

	Cache struct {
		// BlockCapacity is the number of decoded blocks the block cache
		// may hold across all open SSTs.
		BlockCapacity uint32 `yaml:"block_capacity"`
	} `yaml:"cache"`

	Memtable struct {
		// FlushThresholdBytes triggers LsmStorage to rotate the active
		// memtable once its approximate size reaches this bound: Put and
		// Delete then call Sync synchronously on the caller's goroutine.
		FlushThresholdBytes uint64 `yaml:"flush_threshold_bytes"`
	} `yaml:"memtable"`
}

const fileName = "lsmkv.yaml"

// Default returns the compiled-in configuration used when no lsmkv.yaml is
// found in the data directory.
func Default() *Config {
	cfg := &Config{}
	cfg.Block.TargetSize = 4096
	cfg.Cache.BlockCapacity = 256
	cfg.Memtable.FlushThresholdBytes = 4 << 20
	return cfg
}

// Load reads lsmkv.yaml from dir, returning the compiled-in defaults if the
// file does not exist. A present-but-malformed file is an error: unlike a
// missing file, it signals a real misconfiguration the caller should see.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
