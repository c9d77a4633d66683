package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ZacxDev/go-static-i18n/i18n"
	"github.com/ZacxDev/go-static-i18n/logfields"
)

var dirty bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site and all its locales",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger.Info("Building site", "config", cfg.File, "site_dir", cfg.SiteDir)
		res, err := (&i18n.Orchestrator{Config: cfg, Dirty: dirty, Log: logger}).Build(cmd.Context())
		if err != nil {
			return err
		}

		logger.Info("Site generated",
			logfields.BuildID(res.BuildID),
			logfields.Count(len(res.Locales)),
			"search_duplicates", res.Duplicates,
			"excluded", len(res.Excluded),
			"site_dir", cfg.SiteDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&dirty, "dirty", false, "Only render pages whose source changed")
}
