package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/halvden/oblevel/internal/bootstrap"
	"github.com/halvden/oblevel/internal/httpapi"
	"github.com/halvden/oblevel/internal/pkg/buildinfo"
	"github.com/spf13/cobra"
)

func main() {
	var cfgFile string
	var dbFile string
	var listen string

	rootCmd := &cobra.Command{
		Use:     "oblevel-web",
		Short:   "Serve the leveling sheet as a local web app",
		Version: buildinfo.Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			core, err := bootstrap.New(ctx, bootstrap.Options{
				ConfigPath: cfgFile,
				Database:   dbFile,
			})
			if err != nil {
				return err
			}
			defer core.Close()

			if listen == "" {
				listen = core.Cfg.Web.ListenAddr
			}
			srv, err := httpapi.Start(ctx, core, httpapi.Options{ListenAddr: listen})
			if err != nil {
				return err
			}

			fmt.Printf("serving %s at %s\n", core.Engine.Path(), srv.BaseURL())
			<-ctx.Done()

			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVarP(&dbFile, "database", "d", "", "character file (defaults to the configured or most recent one)")
	rootCmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (defaults to web.listen_addr)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
