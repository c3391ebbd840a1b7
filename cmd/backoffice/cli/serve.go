package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkrentals/backoffice/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the back office HTTP server",
		Long:  "Start the HTTP server that serves the admin login page, the dashboard, and the auth API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().String("env", "development", "Deployment environment (production enables secure cookies)")
	cmd.Flags().String("base-url", "", "Public admin URL, used to scope the session cookie in production")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	viper.BindPFlag("app.env", cmd.Flags().Lookup("env"))
	viper.BindPFlag("app.base_url", cmd.Flags().Lookup("base-url"))

	return cmd
}

func runServe(ctx context.Context) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(settings)

	store, err := openStore(settings)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer store.Close()
	logger.Info("credential store initialized", "driver", store.Driver())

	svc := buildServices(settings, store, logger)

	needsSetup, err := svc.Bootstrap.NeedsSetup(ctx)
	if err != nil {
		logger.Warn("failed to check for admin", "error", err)
	}
	if needsSetup {
		logger.Warn("no admin account found - visit /login to run setup or run: backoffice setup")
	}

	srvCfg := server.ConfigFromSettings(settings)
	srv := server.New(srvCfg, svc, logger)

	fmt.Printf("→ backoffice %s\n", appVersion)
	fmt.Printf("→ Listening on http://%s:%d\n", srvCfg.Host, srvCfg.Port)
	fmt.Printf("→ Login:      http://%s:%d/login\n", srvCfg.Host, srvCfg.Port)
	fmt.Printf("→ OpenAPI:    http://%s:%d/openapi.json\n", srvCfg.Host, srvCfg.Port)
	fmt.Printf("→ Health:     http://%s:%d/healthz\n", srvCfg.Host, srvCfg.Port)
	if settings.IsProduction() {
		fmt.Printf("→ Cookie:     %s (secure, domain %q)\n", svc.Sessions.CookieName(), svc.Sessions.Domain())
	}
	fmt.Println()

	return srv.ListenAndServe()
}
