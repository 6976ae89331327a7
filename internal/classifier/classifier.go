package classifier

import (
	"context"
	"fmt"
	"image"
	"io"
)

// Classifier turns photos into filtered disease predictions.
type Classifier struct {
	model    Model
	manifest Manifest
	policy   FilterPolicy
}

// New creates a Classifier for model, described by m.
func New(model Model, m Manifest, policy FilterPolicy) *Classifier {
	return &Classifier{model: model, manifest: m, policy: policy}
}

// Manifest returns the model description.
func (c *Classifier) Manifest() Manifest {
	return c.manifest
}

// Classify preprocesses img, runs the model and filters its output.
func (c *Classifier) Classify(ctx context.Context, img image.Image) ([]Prediction, error) {
	t := Preprocess(img, c.manifest.InputSize)

	probs, err := c.model.Predict(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	return TranslateAndFilter(probs, c.manifest.Classes, c.policy)
}

// ClassifyReader decodes an image from r and classifies it.
func (c *Classifier) ClassifyReader(ctx context.Context, r io.Reader) ([]Prediction, error) {
	img, err := DecodeImage(r)
	if err != nil {
		return nil, err
	}
	return c.Classify(ctx, img)
}
