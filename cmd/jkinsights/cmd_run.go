package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kavya1280/JK-Insights/internal/app"
	"github.com/kavya1280/JK-Insights/internal/insights"
	"github.com/kavya1280/JK-Insights/internal/operations"
	"github.com/kavya1280/JK-Insights/internal/validation"
)

func newRunCmd() *cobra.Command {
	var (
		selected []string
		dataDir  string
		outDir   string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate insight workbooks without starting the server",
		Long: "run loads the master files from the data directory, executes the\n" +
			"selected detectors and writes their workbooks to the output directory.\n" +
			"Without --insights every insight in the catalog runs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, paths, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if dataDir == "" {
				dataDir = paths.DataDir
			}
			if outDir == "" {
				outDir = paths.OutputDir
			}
			if workers <= 0 {
				workers = cfg.Insights.Workers
			}

			ids := normalizeIDs(selected)
			if len(ids) == 0 {
				for _, def := range insights.Catalog {
					ids = append(ids, def.ID)
				}
			}
			if _, err := insights.Resolve(ids); err != nil {
				return err
			}

			dirs := validation.NewDirectoryValidator(logger)
			if _, err := dirs.ValidateInputDirectory(dataDir); err != nil {
				return err
			}
			if err := dirs.ValidateOutputDirectory(outDir); err != nil {
				return err
			}

			opts, err := app.InsightOptions(cfg.Insights)
			if err != nil {
				return err
			}
			runner := operations.NewRunner(operations.RunnerConfig{
				DataDir:   dataDir,
				OutputDir: outDir,
				Options:   opts,
				Workers:   workers,
				Logger:    logger,
			})

			results, err := runner.Run(cmd.Context(), ids, nil)
			if err != nil {
				return err
			}
			printResults(cmd, results)

			var failed []string
			for _, res := range results {
				if !res.Succeeded() {
					failed = append(failed, res.Insight)
				}
			}
			if len(failed) == len(results) {
				return fmt.Errorf("%w: %s", operations.ErrAllInsightsFailed, strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&selected, "insights", "i", nil, "insight ids to run, comma separated (default all)")
	cmd.Flags().StringVar(&dataDir, "data", "", "directory holding the master files (default from config)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for generated workbooks (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "detectors to run at once (default from config)")
	return cmd
}

func normalizeIDs(raw []string) []string {
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		if id = strings.ToUpper(strings.TrimSpace(id)); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func printResults(cmd *cobra.Command, results []operations.InsightResult) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSIGHT\tSTATUS\tFILES\tDETAIL")
	for _, res := range results {
		var files []string
		for _, o := range res.Outputs {
			files = append(files, o.File)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.Insight, res.Status, strings.Join(files, ", "), res.Error)
	}
	tw.Flush()
}
