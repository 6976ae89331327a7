package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/huertalab/durazno/internal/advice"
	"github.com/huertalab/durazno/internal/classifier"
	"github.com/huertalab/durazno/internal/compare"
	"github.com/huertalab/durazno/internal/inference"
	"github.com/huertalab/durazno/internal/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"catalogue": s.cat.Version(),
	})
}

func (s *Server) handleCatalogue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Document())
}

// diagnoseRequest accepts observations as a map, a list of present keys, or both.
type diagnoseRequest struct {
	Observations inference.Observations `json:"observations"`
	Symptoms     []string               `json:"symptoms"`
	Advice       bool                   `json:"advice"`
}

func (req diagnoseRequest) observations() inference.Observations {
	obs := inference.ObservationsFrom(req.Symptoms...)
	for k, v := range req.Observations {
		obs[k] = obs[k] || v
	}
	return obs
}

type diagnoseResponse struct {
	RequestID string                `json:"request_id"`
	Results   []inference.RuleScore `json:"results"`
	Ranked    []inference.RuleScore `json:"ranked"`
	Trace     []string              `json:"trace"`
	Risk      inference.Risk        `json:"risk"`
	Advice    *advice.Plan          `json:"advice,omitempty"`
}

func (s *Server) handleDiagnose(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeDiagnose(w, r)
	if !ok {
		return
	}

	obs := req.observations()
	scores, trace := inference.Infer(obs, s.cat.Rules())
	resp := diagnoseResponse{
		RequestID: RequestID(r.Context()),
		Results:   scores,
		Ranked:    inference.Rank(scores),
		Trace:     trace,
		Risk:      inference.AssessRisk(obs),
	}
	if req.Advice {
		resp.Advice = s.advisor.Advise(r.Context(), resp.Ranked, resp.Risk)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeDiagnose(w http.ResponseWriter, r *http.Request) (diagnoseRequest, bool) {
	var req diagnoseRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return req, false
	}
	return req, true
}

type classifyResponse struct {
	RequestID   string                  `json:"request_id"`
	Model       string                  `json:"model"`
	Predictions []classifier.Prediction `json:"predictions"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	c, ok := s.classifier(w)
	if !ok {
		return
	}
	img, ok := s.readImage(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.modelTimeout)
	defer cancel()
	preds, err := c.Classify(ctx, img)
	if err != nil {
		s.modelError(w, r, err)
		return
	}
	if preds == nil {
		preds = []classifier.Prediction{}
	}
	writeJSON(w, http.StatusOK, classifyResponse{
		RequestID:   RequestID(r.Context()),
		Model:       c.Manifest().Name,
		Predictions: preds,
	})
}

type compareResponse struct {
	RequestID string `json:"request_id"`
	*compare.Result
	Message string `json:"message"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	c, ok := s.classifier(w)
	if !ok {
		return
	}
	img, ok := s.readImage(w, r)
	if !ok {
		return
	}

	obs := inference.ObservationsFrom(r.MultipartForm.Value["symptom"]...)
	if raw := r.FormValue("observations"); raw != "" {
		var extra inference.Observations
		if err := json.Unmarshal([]byte(raw), &extra); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid observations: %v", err))
			return
		}
		for k, v := range extra {
			obs[k] = obs[k] || v
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.modelTimeout)
	defer cancel()
	res, err := compare.New(c, s.cat).Run(ctx, compare.Input{Image: img, Observations: obs})
	if err != nil {
		s.modelError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, compareResponse{
		RequestID: RequestID(r.Context()),
		Result:    res,
		Message:   res.Outcome.Message(),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	if format != "html" && format != "markdown" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	req, ok := s.decodeDiagnose(w, r)
	if !ok {
		return
	}
	md := report.Markdown(s.diagnosis(r.Context(), req.observations()), s.cat)

	if format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(md))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(report.HTML(md))
}

func (s *Server) diagnosis(ctx context.Context, obs inference.Observations) report.Diagnosis {
	scores, _ := inference.Infer(obs, s.cat.Rules())
	ranked := inference.Rank(scores)
	risk := inference.AssessRisk(obs)
	return report.Diagnosis{
		Results: ranked,
		Risk:    &risk,
		Advice:  s.advisor.Advise(ctx, ranked, risk),
	}
}

func (s *Server) classifier(w http.ResponseWriter) (*classifier.Classifier, bool) {
	if s.classifiers == nil {
		writeError(w, http.StatusServiceUnavailable, classifier.ErrNoModel.Error())
		return nil, false
	}
	c, err := s.classifiers.Classifier()
	if err != nil {
		s.logger.Warn("image model not available", "error", err)
		writeError(w, modelStatus(err), err.Error())
		return nil, false
	}
	return c, true
}

func (s *Server) readImage(w http.ResponseWriter, r *http.Request) (image.Image, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return nil, false
	}
	f, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image field")
		return nil, false
	}
	defer f.Close()

	img, err := classifier.DecodeImage(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return img, true
}

func (s *Server) modelError(w http.ResponseWriter, r *http.Request, err error) {
	status := modelStatus(err)
	s.logger.Error("image classification failed", "error", err, "status", status, "request_id", RequestID(r.Context()))
	writeError(w, status, err.Error())
}

var _ Classifiers = (*classifier.Loader)(nil)
