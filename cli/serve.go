package cli

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"repo_analyzer/server"
)

func serveCmd(root *rootOptions) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			coord, err := buildCoordinator(cfg, root.verbose, logger)
			if err != nil {
				return err
			}
			exp, err := buildExporter(cfg, root.verbose, logger)
			if err != nil {
				return err
			}
			srv, err := server.New(coord, exp, server.Options{
				Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
				Verbose: root.verbose,
				Logger:  logger,
			})
			if err != nil {
				return err
			}

			listen := cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			logger.Printf("Starting web server on %s", listen)
			hs := &http.Server{
				Addr:              listen,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	c.Flags().StringVar(&addr, "addr", "", "http listen address (overrides config server_addr)")
	return c
}
