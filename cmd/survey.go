package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huertalab/durazno/internal/survey"
)

func (c *cli) newSurveyCmd() *cobra.Command {
	surveyCmd := &cobra.Command{
		Use:   "survey",
		Short: "Diagnose a whole orchard survey in one go",
	}

	runCmd := &cobra.Command{
		Use:   "run <input.xlsx|input.csv>",
		Short: "Diagnose every plant in a survey spreadsheet",
		Long: "The first row must start with a \"plant\" column followed by symptom keys.\n" +
			"Cells containing 1, true, yes, si, sí or x mark a symptom as present.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath, _ := cmd.Flags().GetString("out")

			rows, err := survey.Read(args[0])
			if err != nil {
				return err
			}
			cat, err := c.loadCatalogue(cmd)
			if err != nil {
				return err
			}

			results := survey.Run(rows, cat)
			summary := survey.Summarize(results, cat)
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "%d plants surveyed\n\n", len(results))
			fmt.Fprintf(w, "%-4s  %-26s  %9s  %9s  %7s  %7s  %7s\n",
				"Rule", "Disease", "Confirmed", "Suspected", "Mean", "Median", "StdDev")
			fmt.Fprintln(w, strings.Repeat("─", 82))
			for _, s := range summary {
				fmt.Fprintf(w, "%-4s  %-26s  %9d  %9d  %6.1f%%  %6.1f%%  %6.1f%%\n",
					s.RuleID, s.Disease, s.Confirmed, s.Suspected, s.Mean*100, s.Median*100, s.StdDev*100)
			}

			if outPath == "" {
				return nil
			}
			if err := survey.WriteXLSX(outPath, results, summary); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nResults written to %s\n", outPath)
			return nil
		},
	}
	runCmd.Flags().StringP("out", "o", "", "Write per-plant results and the summary to this .xlsx file")

	surveyCmd.AddCommand(runCmd)
	return surveyCmd
}
