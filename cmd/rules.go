package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) newRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the diagnostic rules",
	}

	rulesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every rule with its symptoms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalogue(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Catalogue %s\n", cat.Version())
			fmt.Fprintf(w, "%-4s  %-26s  %6s  %s\n", "ID", "Disease", "Weight", "Symptoms")
			fmt.Fprintln(w, strings.Repeat("─", 90))
			for _, r := range cat.Rules() {
				keys := make([]string, len(r.Symptoms))
				for i, ws := range r.Symptoms {
					keys[i] = ws.Key
				}
				fmt.Fprintf(w, "%-4s  %-26s  %6.2f  %s\n",
					r.ID, r.Icon+" "+r.Disease, r.TotalWeight(), strings.Join(keys, ", "))
			}
			return nil
		},
	})

	rulesCmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one rule with weights, symptom descriptions and recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalogue(cmd)
			if err != nil {
				return err
			}
			r, ok := cat.Rule(args[0])
			if !ok {
				return fmt.Errorf("rule %q not found", args[0])
			}
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "ID:        %s\n", r.ID)
			fmt.Fprintf(w, "Disease:   %s %s\n", r.Icon, r.Disease)
			fmt.Fprintf(w, "Weight:    %.2f\n", r.TotalWeight())
			if d, ok := cat.Disease(r.Disease); ok {
				fmt.Fprintf(w, "Advice:    %s\n", d.Recommendation)
			}

			fmt.Fprintln(w)
			fmt.Fprintf(w, "%-18s  %6s  %s\n", "Symptom", "Weight", "Label")
			fmt.Fprintln(w, strings.Repeat("─", 70))
			for _, ws := range r.Symptoms {
				fmt.Fprintf(w, "%-18s  %6.2f  %s\n", ws.Key, ws.Weight, cat.SymptomLabel(ws.Key))
			}
			return nil
		},
	})

	return rulesCmd
}

func (c *cli) newSymptomsCmd() *cobra.Command {
	symptomsCmd := &cobra.Command{
		Use:   "symptoms",
		Short: "Inspect the symptom vocabulary",
	}

	symptomsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List symptom keys accepted by diagnose and compare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalogue(cmd)
			if err != nil {
				return err
			}
			verbose, _ := cmd.Flags().GetBool("verbose")
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "%-18s  %-32s  %s\n", "Key", "Label", "Rules")
			fmt.Fprintln(w, strings.Repeat("─", 72))
			for _, s := range cat.Symptoms() {
				var ids []string
				for _, r := range cat.Rules() {
					if r.HasSymptom(s.Key) {
						ids = append(ids, r.ID)
					}
				}
				fmt.Fprintf(w, "%-18s  %-32s  %s\n", s.Key, s.Label, strings.Join(ids, ","))
				if verbose {
					fmt.Fprintf(w, "%20s%s\n", "", s.Description)
					if s.Treatment != "" {
						fmt.Fprintf(w, "%20sTratamiento: %s\n", "", s.Treatment)
					}
				}
			}
			return nil
		},
	})
	symptomsCmd.Commands()[0].Flags().BoolP("verbose", "v", false, "Also print descriptions and treatments")

	return symptomsCmd
}
