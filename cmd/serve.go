package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/huertalab/durazno/internal/server"
	"github.com/huertalab/durazno/internal/store"
)

func (c *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = c.cfg.Addr
			}

			cat, err := c.loadCatalogue(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var repo store.EventRepo
			if llmConfigured() {
				st, err := c.openStore(cmd)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer st.Close()
				repo = st.EventRepo()
			}

			srv := server.New(server.Options{
				Catalogue:    cat,
				Classifiers:  c.newLoader(""),
				Advisor:      c.newAdvisor(ctx, cat, repo),
				ModelTimeout: c.cfg.Model.Timeout,
				Logger:       c.logger,
			})
			c.logger.Info("catalogue loaded", "version", cat.Version(), "rules", len(cat.Rules()))
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default DURAZNO_ADDR or :8080)")
	return cmd
}
