// Package config loads typed configuration structs from the environment.
//
// Values come from envconfig tags. An optional file (-env flag, or ./.env when
// present) is read with viper first and exported into the process environment;
// variables already set in the environment win over the file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const defaultEnvFile = ".env"

var (
	envFilePath string
	parseOnce   sync.Once

	exportMu sync.Mutex
	exported = map[string]bool{}
)

func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

func New[T any](prefix string) (*T, error) {
	if err := loadEnvFile(resolveEnvPath()); err != nil {
		return nil, err
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, fmt.Errorf("config %s: %w", strings.ToUpper(prefix), err)
	}
	return &conf, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return exportIfExists(defaultEnvFile)
	}
	if err := export(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func resolveEnvPath() string {
	parseOnce.Do(func() {
		if flag.Lookup("env") == nil {
			flag.StringVar(&envFilePath, "env", "", "path to .env, .yaml or .toml config file")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	return strings.TrimSpace(envFilePath)
}

func exportIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if err := export(path); err != nil {
		return fmt.Errorf("failed to load default env file: %w", err)
	}
	return nil
}

// export reads path once per process and sets every key that is not already
// present in the environment.
func export(path string) error {
	exportMu.Lock()
	defer exportMu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if exported[abs] {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(abs)
	if filepath.Ext(abs) == "" || filepath.Base(abs) == defaultEnvFile {
		v.SetConfigType("env")
	}
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for key, value := range flatten("", v.AllSettings()) {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, value); err != nil {
			return err
		}
	}
	exported[abs] = true
	return nil
}

// flatten turns nested yaml/toml sections into PREFIX_KEY names.
func flatten(prefix string, settings map[string]any) map[string]string {
	out := make(map[string]string, len(settings))
	for k, v := range settings {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = fmt.Sprint(v)
	}
	return out
}
