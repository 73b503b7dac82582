package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; existing process variables are never overridden.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every env file present in dir. Missing files are not an error.
func loadEnvFiles(dir string) error {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
	}
	return nil
}
