package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultFileName         = "/.env"
	defaultOverrideFileName = "/.local.env"
)

type EnvLoader struct{}

// read loads <folder>/.env, then .<APP_ENV>.env (or .local.env) on top of it.
// Variables already present in the process environment always win.
// It returns the files that were actually loaded.
func (e *EnvLoader) read(folder string) []string {
	var (
		defaultFile  = folder + defaultFileName
		overrideFile = folder + defaultOverrideFileName
		env          = e.Get("APP_ENV")
		system       = os.Environ()
		loaded       []string
	)

	if err := godotenv.Load(defaultFile); err == nil {
		loaded = append(loaded, defaultFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("failed to load config from file: %v, err: %v", defaultFile, err))
	}

	if env != "" {
		overrideFile = fmt.Sprintf("%s/.%s.env", folder, env)
	}

	if err := godotenv.Overload(overrideFile); err == nil {
		loaded = append(loaded, overrideFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("failed to load config from file: %v, err: %v", overrideFile, err))
	}

	for _, envVar := range system {
		key, value, found := strings.Cut(envVar, "=")
		if found {
			os.Setenv(key, value)
		}
	}

	return loaded
}

func (*EnvLoader) Get(key string) string {
	return os.Getenv(key)
}

func (*EnvLoader) GetOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultValue
}
