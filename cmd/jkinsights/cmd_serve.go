package main

import (
	"github.com/spf13/cobra"

	"github.com/kavya1280/JK-Insights/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := app.NewApplication(nil)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
}
