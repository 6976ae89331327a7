package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huertalab/durazno/internal/app"
	"github.com/huertalab/durazno/internal/store"
)

// runChecklist loads the catalogue and the optional advisor, then launches the TUI.
func (c *cli) runChecklist(cmd *cobra.Command) error {
	cat, err := c.loadCatalogue(cmd)
	if err != nil {
		return err
	}

	var repo store.EventRepo
	if llmConfigured() {
		st, err := c.openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		repo = st.EventRepo()
	}

	return app.Run(cat, c.newAdvisor(cmd.Context(), cat, repo))
}

func (c *cli) newChecklistCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checklist",
		Short: "Open the interactive symptom checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runChecklist(cmd)
		},
	}
}
