package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Model maps an input tensor to one score per class, in manifest order.
type Model interface {
	Predict(ctx context.Context, t Tensor) ([]float64, error)
}

// RemoteModel calls a TensorFlow-Serving style REST endpoint:
// POST {"instances": [tensor]} → {"predictions": [[...]]}.
type RemoteModel struct {
	endpoint string
	logits   bool
	client   *http.Client
}

// NewRemoteModel creates a client for m.Endpoint. A nil client uses
// http.DefaultClient; timeouts come from the caller's context.
func NewRemoteModel(m Manifest, client *http.Client) *RemoteModel {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteModel{
		endpoint: m.Endpoint,
		logits:   m.OutputsAreLogits,
		client:   client,
	}
}

type predictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

// Predict implements Model.
func (m *RemoteModel) Predict(ctx context.Context, t Tensor) ([]float64, error) {
	body, err := json.Marshal(predictRequest{Instances: [][][][]float32{t.Nested()}})
	if err != nil {
		return nil, fmt.Errorf("encode tensor: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ErrModelUnavailable{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrModelUnavailable{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(data))
		if resp.StatusCode >= 500 {
			return nil, &ErrModelUnavailable{StatusCode: resp.StatusCode, Err: errors.New(msg)}
		}
		return nil, fmt.Errorf("model rejected request (HTTP %d): %s", resp.StatusCode, msg)
	}

	var out predictResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("model error: %s", out.Error)
	}
	if len(out.Predictions) == 0 {
		return nil, fmt.Errorf("model returned no predictions")
	}

	scores := out.Predictions[0]
	if m.logits {
		scores = Softmax(scores)
	}
	return scores, nil
}

// Softmax converts logits to probabilities. The input is not modified.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	out := make([]float64, len(logits))
	copy(out, logits)

	floats.AddConst(-floats.Max(out), out)
	for i, v := range out {
		out[i] = math.Exp(v)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}
