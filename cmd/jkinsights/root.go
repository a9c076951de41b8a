package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kavya1280/JK-Insights/internal/app"
	"github.com/kavya1280/JK-Insights/internal/config"
	"github.com/kavya1280/JK-Insights/internal/infrastructure"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jkinsights",
		Short: "Expense anomaly insights over Concur and HR master data",
		Long: "jkinsights runs the PJPA27-40 anomaly detectors over the Concur header,\n" +
			"line item, employee master and left-employee files and writes one\n" +
			"exception workbook per insight. serve exposes the same pipeline over HTTP.",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newUsersCmd())
	return root
}

// loadConfig reads configuration and returns a console logger for CLI use
func loadConfig() (*config.Config, *config.Paths, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := infrastructure.NewLoggerWithWriter(os.Stderr, "text", cfg.Logging.Level)
	return cfg, paths, logger, nil
}
