package main

import (
	"errors"
	"fmt"
	"os"

	"go-chi-calculator/internal/config"

	"github.com/joho/godotenv"
)

const defaultDotEnvFile = ".env"

// loadDotEnv loads the file named by CALC_ENV_FILE, or .env when unset.
// Variables already in the process environment win. Only an explicitly
// named file has to exist.
func loadDotEnv() error {
	path, explicit := os.LookupEnv(config.EnvDotEnvFile)
	if !explicit || path == "" {
		path, explicit = defaultDotEnvFile, false
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}
