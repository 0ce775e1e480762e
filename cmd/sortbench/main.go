// Package main sortbench
// @title sortbench API
// @version 1.0
// @description Read-only access to stored sorting benchmark runs
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			slog.Error("Invalid configuration", "error", err)
		} else {
			slog.Error("Command failed", "error", err)
		}
		os.Exit(1)
	}
}
