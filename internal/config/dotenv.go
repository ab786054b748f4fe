package config

import (
    "os"

    "github.com/joho/godotenv"

    "github.com/iliyamo/cinemood/internal/logging"
)

// LoadDotEnv layers .env files under the real environment.  Earlier files
// win because godotenv.Load never overrides a variable that is already set:
//
//   .env.<APP_ENV>.local  secrets for one environment
//   .env.local            machine-local overrides
//   .env.<APP_ENV>        shared per-environment settings
//   .env                  shared defaults
//
// Missing files are skipped; a file that fails to parse is logged and skipped.
func LoadDotEnv() {
    env := os.Getenv("APP_ENV")
    if env == "" {
        env = "dev"
    }
    for _, f := range []string{".env." + env + ".local", ".env.local", ".env." + env, ".env"} {
        if _, err := os.Stat(f); err != nil {
            continue
        }
        if err := godotenv.Load(f); err != nil {
            logging.Warn().Err(err).Str("file", f).Msg("skipping unreadable env file")
        }
    }
}
