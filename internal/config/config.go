// Package config loads process configuration from a TOML file, the
// BRIARQL_-prefixed environment, and command-line flags, in that order
// of increasing precedence.
//
// The viper singleton pattern, env-prefix binding, and SetDefault table
// are grounded on untoldecay-BeadsLog/internal/config/config.go; this
// package is a deliberately smaller instance of that shape, sized to
// spec.md's configuration surface rather than a general-purpose CLI's.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/briarql/briarql/internal/dberrors"
)

var v *viper.Viper

// defaultConfig is written out (via BurntSushi/toml, used here for its
// clean struct-to-TOML marshaling rather than viper's own file writer)
// the first time Initialize runs against a data directory with no
// config.toml yet, so an operator has something to edit.
type defaultConfig struct {
	DataDir    string `toml:"data_dir"`
	Degree     int    `toml:"degree"`
	ListenAddr string `toml:"listen_addr"`
	TLSCert    string `toml:"tls_cert"`
	TLSKey     string `toml:"tls_key"`
	BackupDir  string `toml:"backup_dir"`
	LogFile    string `toml:"log_file"`
	LogMaxMB   int    `toml:"log_max_mb"`
}

// Initialize sets up the viper singleton. configPath, if non-empty,
// names an explicit config.toml to load; otherwise Initialize looks for
// <dataDir>/config.toml and writes a default one if absent.
func Initialize(dataDir, configPath string) error {
	v = viper.New()
	v.SetConfigType("toml")

	v.SetEnvPrefix("BRIARQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", dataDir)
	v.SetDefault("degree", 3)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("tls_cert", "")
	v.SetDefault("tls_key", "")
	v.SetDefault("backup_dir", filepath.Join(dataDir, "backups"))
	v.SetDefault("log_file", filepath.Join(dataDir, "briarql.log"))
	v.SetDefault("log_max_mb", 50)

	if configPath == "" {
		configPath = filepath.Join(dataDir, "config.toml")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := writeDefaultConfig(configPath, dataDir); err != nil {
			return err
		}
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return dberrors.Wrap(dberrors.IO, err, "read config file %s", configPath)
	}
	return nil
}

func writeDefaultConfig(path, dataDir string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return dberrors.Wrap(dberrors.IO, err, "create config directory for %s", path)
	}
	cfg := defaultConfig{
		DataDir:    dataDir,
		Degree:     3,
		ListenAddr: ":8080",
		BackupDir:  filepath.Join(dataDir, "backups"),
		LogFile:    filepath.Join(dataDir, "briarql.log"),
		LogMaxMB:   50,
	}
	f, err := os.Create(path)
	if err != nil {
		return dberrors.Wrap(dberrors.IO, err, "create config file %s", path)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return dberrors.Wrap(dberrors.IO, err, "write config file %s", path)
	}
	return nil
}

func DataDir() string    { return v.GetString("data_dir") }
func Degree() int        { return v.GetInt("degree") }
func ListenAddr() string { return v.GetString("listen_addr") }
func TLSCert() string    { return v.GetString("tls_cert") }
func TLSKey() string     { return v.GetString("tls_key") }
func BackupDir() string  { return v.GetString("backup_dir") }
func LogFile() string    { return v.GetString("log_file") }
func LogMaxMB() int      { return v.GetInt("log_max_mb") }

// SetFlagOverride lets a cobra flag win over the config file / env value
// once parsed, matching the common "flags beat everything" precedence rule
// (BeadsLog's CheckOverrides/LogOverride, simplified here to a plain
// Set since briarql has no override-source reporting UI).
func SetFlagOverride(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
