package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kavya1280/JK-Insights/internal/insights"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the insight catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tFILE")
			for _, def := range insights.Catalog {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", def.ID, def.Name, def.File)
			}
			return tw.Flush()
		},
	}
}
