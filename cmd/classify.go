package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/huertalab/durazno/internal/classifier"
	"github.com/huertalab/durazno/internal/compare"
	"github.com/huertalab/durazno/internal/report"
)

func (c *cli) newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a leaf or fruit photo with the image model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			imagePath, _ := cmd.Flags().GetString("image")
			manifest, _ := cmd.Flags().GetString("manifest")
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format, "text", "json"); err != nil {
				return err
			}

			clf, img, err := c.openImage(manifest, imagePath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.Model.Timeout)
			defer cancel()
			preds, err := clf.Classify(ctx, img)
			if err != nil {
				return fmt.Errorf("classify %s: %w", imagePath, err)
			}

			w := cmd.OutOrStdout()
			if format == "json" {
				if preds == nil {
					preds = []classifier.Prediction{}
				}
				return writeJSON(w, map[string]any{"model": clf.Manifest().Name, "predictions": preds})
			}
			cat, err := c.loadCatalogue(cmd)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, report.Text(report.Diagnosis{Image: true, Predictions: preds}, cat))
			return err
		},
	}

	cmd.Flags().StringP("image", "i", "", "Photo to classify (JPEG, PNG, GIF or WebP)")
	cmd.Flags().StringP("manifest", "m", "", "Model manifest YAML (overrides DURAZNO_MODEL_MANIFEST)")
	cmd.Flags().StringP("format", "f", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func (c *cli) newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the photo and the symptom checklist side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			imagePath, _ := cmd.Flags().GetString("image")
			manifest, _ := cmd.Flags().GetString("manifest")
			symptoms, _ := cmd.Flags().GetStringSlice("symptom")
			file, _ := cmd.Flags().GetString("observations")
			format, _ := cmd.Flags().GetString("format")
			if err := checkFormat(format, "text", "json", "markdown"); err != nil {
				return err
			}

			obs, err := observationsFrom(symptoms, file)
			if err != nil {
				return err
			}
			cat, err := c.loadCatalogue(cmd)
			if err != nil {
				return err
			}
			warnUnknown(cat, obs)

			clf, img, err := c.openImage(manifest, imagePath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), c.cfg.Model.Timeout)
			defer cancel()
			res, err := compare.New(clf, cat).Run(ctx, compare.Input{Image: img, Observations: obs})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				return writeJSON(w, res)
			case "markdown":
				_, err = io.WriteString(w, report.Markdown(compareDiagnosis(res), cat))
			default:
				_, err = io.WriteString(w, report.Text(compareDiagnosis(res), cat))
			}
			return err
		},
	}

	cmd.Flags().StringP("image", "i", "", "Photo to classify")
	cmd.Flags().StringP("manifest", "m", "", "Model manifest YAML (overrides DURAZNO_MODEL_MANIFEST)")
	cmd.Flags().StringSliceP("symptom", "s", nil, "Observed symptom key (repeatable)")
	cmd.Flags().StringP("observations", "o", "", "YAML or JSON file with observations")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json or markdown")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func compareDiagnosis(res *compare.Result) report.Diagnosis {
	return report.Diagnosis{
		Results:     res.Ranked,
		Image:       true,
		Predictions: res.Predictions,
		Outcome:     res.Outcome,
	}
}

// openImage loads the classifier and decodes the photo.
func (c *cli) openImage(manifest, path string) (*classifier.Classifier, image.Image, error) {
	clf, err := c.newLoader(manifest).Classifier()
	if errors.Is(err, classifier.ErrNoModel) {
		return nil, nil, fmt.Errorf("%w: set DURAZNO_MODEL_ENDPOINT or pass --manifest", err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load image model: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, err := classifier.DecodeImage(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return clf, img, nil
}
