package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file if one exists in the
// working directory or its parent. Missing files are not an error.
func LoadEnv() {
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			parent := filepath.Join("..", ".env")
			if _, err := os.Stat(parent); err == nil {
				envFile = parent
			}
		}
		_ = godotenv.Load(envFile)
	})
}
