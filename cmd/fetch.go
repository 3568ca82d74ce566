package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fetchURL string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download and extract the dataset archive",
	Long:  "Extracts the dataset archive into the data directory, downloading it first when it is missing and an archive URL is configured. Does nothing if the data directory already exists.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if fetchURL != "" {
			cfg.Data.ArchiveURL = fetchURL
		}
		if err := cfg.Validate("fetch"); err != nil {
			return err
		}

		if err := prepareData(ctx, cfg.Data); err != nil {
			return err
		}
		zap.L().Info("fetch complete", zap.String("dir", cfg.Data.DataDir()))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchURL, "url", "", "archive download URL (overrides data.archive_url)")
	rootCmd.AddCommand(fetchCmd)
}
