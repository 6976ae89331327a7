package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huertalab/durazno/internal/catalogue"
)

func (c *cli) newKBCmd() *cobra.Command {
	kbCmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the knowledge base (rule catalogue) stored in the database",
	}

	kbCmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write the active catalogue to a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := catalogue.FormatFromPath(args[0])
			if err != nil {
				return err
			}
			cat, err := c.loadCatalogue(cmd)
			if err != nil {
				return err
			}
			data, err := catalogue.Encode(cat, format)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported catalogue %s (%d rules) to %s\n", cat.Version(), len(cat.Rules()), args[0])
			return nil
		},
	})

	kbCmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Validate a catalogue file and store it in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalogue.Load(args[0])
			if err != nil {
				return err
			}
			return c.saveCatalogue(cmd, cat)
		},
	})

	kbCmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Store the built-in catalogue in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.saveCatalogue(cmd, catalogue.Default())
		},
	})

	return kbCmd
}

func (c *cli) saveCatalogue(cmd *cobra.Command, cat *catalogue.Catalogue) error {
	st, err := c.openStore(cmd)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	if err := st.KnowledgeBaseRepo().Save(cmd.Context(), cat); err != nil {
		return fmt.Errorf("save catalogue: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stored catalogue %s (%d rules, %d symptoms)\n", cat.Version(), len(cat.Rules()), len(cat.Symptoms()))
	return nil
}
