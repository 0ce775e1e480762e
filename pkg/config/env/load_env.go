package env

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. ENV_PATH, when
// set, overrides defaultPath. A missing default file is not an error; a
// missing ENV_PATH file is. Variables already set in the environment win.
func LoadDotEnv(defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	explicit := envPath != ""
	if !explicit {
		envPath = defaultPath
	}

	err := godotenv.Load(envPath)
	if err == nil {
		slog.Debug("loaded .env", "path", envPath)
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		slog.Debug("skipping .env", "path", envPath)
		return nil
	}
	return err
}
