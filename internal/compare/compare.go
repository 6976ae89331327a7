// Package compare runs the photo classifier and the symptom checklist on
// the same plant and reports whether they point at the same disease.
package compare

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/classifier"
	"github.com/huertalab/durazno/internal/inference"
)

// Outcome summarizes how the two diagnoses relate.
type Outcome string

const (
	OutcomeAgree         Outcome = "agree"
	OutcomeDisagree      Outcome = "disagree"
	OutcomeFormNoSignal  Outcome = "form_no_signal"
	OutcomeImageNoSignal Outcome = "image_no_signal"
)

// Message returns a one-line explanation of the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeAgree:
		return "Both methods point to the same disease."
	case OutcomeFormNoSignal:
		return "The checklist found no matching symptoms; review the observations."
	case OutcomeImageNoSignal:
		return "The photo shows no relevant disease signal."
	default:
		return "The methods disagree; inspect the plant more closely."
	}
}

// ImageClassifier is the part of the classifier used here.
type ImageClassifier interface {
	Classify(ctx context.Context, img image.Image) ([]classifier.Prediction, error)
}

// Input is one plant seen both ways.
type Input struct {
	Image        image.Image
	Observations inference.Observations
}

// Result holds both diagnoses and their comparison.
type Result struct {
	Predictions []classifier.Prediction `json:"predictions"`
	Scores      []inference.RuleScore   `json:"scores"`
	Ranked      []inference.RuleScore   `json:"ranked"`
	Trace       []string                `json:"trace"`
	ImageTop    *classifier.Prediction  `json:"image_top,omitempty"`
	FormTop     *inference.RuleScore    `json:"form_top,omitempty"`
	Outcome     Outcome                 `json:"outcome"`
}

// Comparer runs comparisons against a fixed catalogue.
type Comparer struct {
	classifier ImageClassifier
	catalogue  *catalogue.Catalogue
}

// New creates a Comparer.
func New(c ImageClassifier, cat *catalogue.Catalogue) *Comparer {
	return &Comparer{classifier: c, catalogue: cat}
}

// Run classifies the image and evaluates the observations concurrently.
// A classifier failure fails the whole comparison.
func (c *Comparer) Run(ctx context.Context, in Input) (*Result, error) {
	if in.Image == nil {
		return nil, fmt.Errorf("compare: image is required")
	}

	res := &Result{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		preds, err := c.classifier.Classify(gctx, in.Image)
		if err != nil {
			return fmt.Errorf("classify image: %w", err)
		}
		res.Predictions = preds
		return nil
	})

	g.Go(func() error {
		res.Scores, res.Trace = inference.Infer(in.Observations, c.catalogue.Rules())
		res.Ranked = inference.Rank(res.Scores)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(res.Predictions) > 0 {
		top := res.Predictions[0]
		res.ImageTop = &top
	}
	if top, ok := inference.Top(res.Scores); ok {
		res.FormTop = &top
	}
	res.Outcome = Decide(res.ImageTop, res.FormTop)
	return res, nil
}

// Decide compares the leading image prediction with the leading rule score.
// Either may be nil when its path produced nothing.
func Decide(imageTop *classifier.Prediction, formTop *inference.RuleScore) Outcome {
	switch {
	case imageTop == nil:
		return OutcomeImageNoSignal
	case formTop == nil || formTop.Score == 0:
		return OutcomeFormNoSignal
	case imageTop.Disease == formTop.Disease:
		return OutcomeAgree
	default:
		return OutcomeDisagree
	}
}
