// Copyright © 2025 neovim-ink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Persistent settings store for nvim-ink.

package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const configName = "nvim-ink.json"

// Settings holds everything nvim-ink reads from its config file. A missing
// or unreadable file is not fatal; defaults apply and the error is kept for
// inspection via Err.
type Settings struct {
	// NvimPath is the editor binary to spawn.
	NvimPath string `json:"nvim_path"`
	// NvimArgs are passed through after --embed.
	NvimArgs []string `json:"nvim_args"`
	// Mouse enables SGR mouse reporting.
	Mouse bool `json:"mouse"`
	// DistinguishDelete sends <Del> for the DEL byte instead of folding
	// it into <BS>.
	DistinguishDelete bool `json:"distinguish_delete"`
}

var (
	mu       sync.RWMutex
	once     sync.Once
	settings Settings
	loadErr  error
)

func defaults() Settings {
	return Settings{
		NvimPath: "nvim",
		Mouse:    true,
	}
}

// Load returns the active settings, reading the config file on first use.
func Load() Settings {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return settings
}

// Err returns the most recent load error, nil when the file was absent or
// read cleanly.
func Err() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

// Reload rereads the config file.
func Reload() error {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	loadErr = loadLocked()
	return loadErr
}

// Set replaces the in-memory settings.
func Set(s Settings) {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	settings = s
}

// Save persists the current settings to disk, creating the directory as
// needed.
func Save() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func initStore() {
	mu.Lock()
	defer mu.Unlock()
	loadErr = loadLocked()
}

func loadLocked() error {
	settings = defaults()
	path, err := configPath()
	if err != nil {
		log.Printf("Config: Failed to resolve config path: %v", err)
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		log.Printf("Config: Failed to read %s: %v", path, err)
		return err
	}
	loaded := defaults()
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("Config: Failed to parse %s: %v", path, err)
		return err
	}
	if loaded.NvimPath == "" {
		loaded.NvimPath = defaults().NvimPath
	}
	settings = loaded
	log.Printf("Config: Loaded settings from %s", path)
	return nil
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "nvim-ink", configName), nil
}
