package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultServer = "http://localhost:8080"

// fileConfig is the on-disk hubctl configuration.
type fileConfig struct {
	Server   string `yaml:"server"`
	Password string `yaml:"password"`
}

// defaultConfigPath returns ~/.config/hubctl/config.yaml, honoring
// XDG_CONFIG_HOME.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hubctl", "config.yaml")
}

// loadConfig reads path. A missing file yields the defaults.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{Server: defaultServer}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	return cfg, nil
}

// saveConfig writes cfg to path with owner-only permissions, since it may
// hold the password.
func saveConfig(path string, cfg *fileConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// sessionFile remembers the session token issued by server, so later runs
// skip the login.
type sessionFile struct {
	Server string `yaml:"server"`
	Token  string `yaml:"token"`
}

// sessionPath returns session.yaml next to the config file, or "" when
// there is no config file to sit beside.
func sessionPath(configPath string) string {
	if configPath == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(configPath), "session.yaml")
}

// loadSession reads path. A missing file yields an empty session.
func loadSession(path string) (*sessionFile, error) {
	s := &sessionFile{}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	return s, nil
}

// saveSession writes s to path with owner-only permissions.
func saveSession(path string, s *sessionFile) error {
	if path == "" {
		return nil
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// removeSession forgets the remembered session.
func removeSession(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
