// server runs the JK Insights HTTP service with configuration taken from
// config.yaml and JK_* environment variables.
package main

import (
	"log/slog"
	"os"

	"github.com/kavya1280/JK-Insights/internal/app"
)

func main() {
	application, err := app.NewApplication(nil)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
