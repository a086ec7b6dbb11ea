package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/spf13/cobra"

	"github.com/Zachkp/scrollfolio/internal/config"
	"github.com/Zachkp/scrollfolio/internal/content"
)

func main() {
	if err := newRootCmd(config.Load()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "scrollfolio",
		Short:        "Single-page portfolio with server-driven scroll effects",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port (env PORT)")
	root.PersistentFlags().StringVar(&cfg.ContentPath, "content", cfg.ContentPath, "content YAML file; built-in content when empty (env CONTENT_PATH)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "validate [content.yaml]",
		Short: "Check a content file without starting the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.ContentPath
			if len(args) == 1 {
				path = args[0]
			}
			doc, err := content.Load(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "content ok: %d sections, %d projects\n", len(doc.Sections), len(doc.Projects))
			return nil
		},
	})
	return root
}

func serve(ctx context.Context, cfg config.Config) error {
	log := newLogger(cfg)

	doc, err := content.Load(cfg.ContentPath)
	if err != nil {
		log.Error().Err(err).Msg("load content")
		return err
	}

	r, err := newRouter(cfg, doc, log)
	if err != nil {
		log.Error().Err(err).Msg("build router")
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Int("sections", len(doc.Sections)).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
