package cmd

import (
	"context"
	"net/http"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ZacxDev/go-static-i18n/handlers"
	"github.com/ZacxDev/go-static-i18n/i18n"
	"github.com/ZacxDev/go-static-i18n/logfields"
	"github.com/ZacxDev/go-static-i18n/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = settings.Port
		}
		watch, _ := cmd.Flags().GetBool("watch")

		reg := prom.NewRegistry()
		b := &builder{recorder: metrics.NewPrometheusRecorder(reg)}
		site, err := b.build(cmd.Context())
		if err != nil {
			return err
		}

		if watch {
			w, err := newWatcher(b)
			if err != nil {
				return err
			}
			defer w.Close()
			go w.Run(cmd.Context())
		}

		logger.Info("Starting server", "port", port, "site_dir", site.Dir())
		return http.ListenAndServe(":"+port, handlers.SetupRouter(site, reg))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to run the server on (default $PORT or 9010)")
	serveCmd.Flags().Bool("watch", false, "Rebuild when the docs or the configuration change")
}

// builder rebuilds the site from a fresh read of the configuration file.
type builder struct {
	recorder metrics.Recorder

	mu   sync.Mutex
	site *handlers.Site
}

func (b *builder) build(ctx context.Context) (*handlers.Site, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	res, err := (&i18n.Orchestrator{Config: cfg, Log: logger, Recorder: b.recorder}).Build(ctx)
	if err != nil {
		return nil, err
	}
	if b.site == nil {
		b.site = handlers.NewSite(cfg.SiteDir)
	}
	b.site.Update(res)
	logger.Info("Site ready", logfields.BuildID(res.BuildID), logfields.Count(len(res.Locales)))
	return b.site, nil
}
