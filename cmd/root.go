package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ZacxDev/go-static-i18n/config"
)

// Settings are read from the environment, after loading an optional .env file.
type Settings struct {
	AppOrigin string `env:"APP_ORIGIN"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	Port      string `env:"PORT" envDefault:"9010"`
}

var (
	configFile string
	verbose    bool
	settings   Settings
	logger     = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "go-static-i18n",
	Short: "go-static-i18n - Build a documentation site in every language",
	Long: `go-static-i18n renders a Markdown documentation site once for its default
language and once below a /<code>/ prefix for every configured locale.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "error loading .env")
		}
		if err := env.Parse(&settings); err != nil {
			return errors.Wrap(err, "error reading environment")
		}
		logger = newLogger(settings.LogLevel, verbose)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "mkdocs.yml", "Site configuration file (.yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newLogger(level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// loadConfig reads the configuration file. APP_ORIGIN overrides site_url.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if settings.AppOrigin != "" {
		cfg.SiteURL = strings.TrimSuffix(settings.AppOrigin, "/") + "/"
	}
	return cfg, nil
}
