package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const EnvPrefix = "SWAGSUMMARY"

// Load reads path (any format viper understands) and applies SWAGSUMMARY_*
// environment overrides, e.g. SWAGSUMMARY_LOG_LEVEL or SWAGSUMMARY_OUTPUT as a
// comma separated list. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if path != "" {
		cfg.Docs.GoDir = relativeTo(filepath.Dir(path), cfg.Docs.GoDir)
	}
	return cfg, nil
}

func relativeTo(base, dir string) string {
	dir = strings.TrimSpace(dir)
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Keys must be known to viper for AutomaticEnv to reach them in Unmarshal.
	v.SetDefault("name", "")
	v.SetDefault("input", "")
	v.SetDefault("output", []string{})
	v.SetDefault("docs.xml", []string{})
	v.SetDefault("docs.go_patterns", []string{})
	v.SetDefault("docs.go_dir", "")
	v.SetDefault("log.level", "")
	v.SetDefault("log.drop_fields", []string{})

	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		cleaned, ok := sanitize(path)
		if !ok {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			v.SetConfigType(ext)
		}
		if rerr := v.ReadConfig(bytes.NewReader(cleaned)); rerr != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// sanitize strips byte order marks and zero width spaces that editors leave
// behind. It reports false when the file had none.
func sanitize(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	cleaned := bytes.ReplaceAll(data, []byte("\xEF\xBB\xBF"), nil)
	cleaned = bytes.ReplaceAll(cleaned, []byte("\xE2\x80\x8B"), nil)
	if len(cleaned) == len(data) {
		return nil, false
	}
	return cleaned, true
}

func decode(v *viper.Viper) (*Config, error) {
	var out Config
	err := v.Unmarshal(&out, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &out, nil
}
