package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/huertalab/durazno/internal/advice"
	"github.com/huertalab/durazno/internal/inference"
	"github.com/huertalab/durazno/internal/report"
	"github.com/huertalab/durazno/internal/store"
)

// diagnosisOutput is the JSON shape of `durazno diagnose`.
type diagnosisOutput struct {
	Results []inference.RuleScore `json:"results"`
	Ranked  []inference.RuleScore `json:"ranked"`
	Trace   []string              `json:"trace"`
	Risk    inference.Risk        `json:"risk"`
	Advice  *advice.Plan          `json:"advice,omitempty"`
}

func (c *cli) newDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Score the rule catalogue against observed symptoms",
		Example: "  durazno diagnose --symptom ramas_secas --symptom corteza_rajada\n" +
			"  durazno diagnose --observations arbol-12.yaml --format markdown --advice",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			symptoms, _ := cmd.Flags().GetStringSlice("symptom")
			file, _ := cmd.Flags().GetString("observations")
			format, _ := cmd.Flags().GetString("format")
			withAdvice, _ := cmd.Flags().GetBool("advice")
			all, _ := cmd.Flags().GetBool("all")

			if err := checkFormat(format, "text", "json", "markdown"); err != nil {
				return err
			}

			obs, err := observationsFrom(symptoms, file)
			if err != nil {
				return err
			}
			if len(obs.Present()) == 0 {
				fmt.Fprintln(os.Stderr, "No symptoms given; see `durazno symptoms list` for the keys.")
			}

			cat, err := c.loadCatalogue(cmd)
			if err != nil {
				return err
			}
			warnUnknown(cat, obs)

			scores, trace := inference.Infer(obs, cat.Rules())
			out := diagnosisOutput{
				Results: scores,
				Ranked:  inference.Rank(scores),
				Trace:   trace,
				Risk:    inference.AssessRisk(obs),
			}

			if withAdvice {
				var repo store.EventRepo
				if llmConfigured() {
					st, err := c.openStore(cmd)
					if err != nil {
						return fmt.Errorf("open database: %w", err)
					}
					defer st.Close()
					repo = st.EventRepo()
				}
				out.Advice = c.newAdvisor(cmd.Context(), cat, repo).Advise(cmd.Context(), out.Ranked, out.Risk)
				if out.Advice.LLMError != "" {
					c.logger.Warn("LLM advice unavailable", "error", out.Advice.LLMError)
				}
			}

			w := cmd.OutOrStdout()
			if format == "json" {
				return writeJSON(w, out)
			}

			d := report.Diagnosis{Results: out.Ranked, Risk: &out.Risk, Advice: out.Advice}
			if all {
				d.Results = out.Results
			}
			if format == "markdown" {
				_, err = io.WriteString(w, report.Markdown(d, cat))
				return err
			}
			_, err = io.WriteString(w, report.Text(d, cat))
			return err
		},
	}

	cmd.Flags().StringSliceP("symptom", "s", nil, "Observed symptom key (repeatable)")
	cmd.Flags().StringP("observations", "o", "", "YAML or JSON file with observations")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json or markdown")
	cmd.Flags().Bool("advice", false, "Include treatment advice (uses an LLM when configured)")
	cmd.Flags().Bool("all", false, "Show every rule, including those with no matching symptom")
	return cmd
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (want one of %v)", format, allowed)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
