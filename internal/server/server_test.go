package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huertalab/durazno/internal/catalogue"
	"github.com/huertalab/durazno/internal/classifier"
	"github.com/huertalab/durazno/internal/logging"
)

// Model order: Agalla de corona, Arañuela roja, Mochedumbre, Mosca de la
// fruta, Oidio, Pulgones, Sano, Taladro, Viruela.
var cancroProbs = []float64{0.05, 0, 0, 0, 0, 0.15, 0, 0.8, 0}

type stubModel struct {
	probs []float64
	err   error
	block bool
}

func (m stubModel) Predict(ctx context.Context, _ classifier.Tensor) ([]float64, error) {
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.probs, m.err
}

func loaderFor(m classifier.Model) *classifier.Loader {
	return classifier.NewLoader(func() (*classifier.Classifier, error) {
		return classifier.New(m, classifier.DefaultManifest(), classifier.DefaultFilterPolicy()), nil
	})
}

func newTestServer(c Classifiers) *Server {
	return New(Options{
		Catalogue:    catalogue.Default(),
		Classifiers:  c,
		ModelTimeout: 50 * time.Millisecond,
		Logger:       logging.Discard(),
	})
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, path string, img []byte, fields map[string][]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if img != nil {
		fw, err := mw.CreateFormFile("image", "hoja.png")
		require.NoError(t, err)
		_, err = fw.Write(img)
		require.NoError(t, err)
	}
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz_RequestID(t *testing.T) {
	s := newTestServer(nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "v1.0.0", decode[map[string]string](t, rec)["catalogue"])

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = serve(s, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestNotFound_JSON(t *testing.T) {
	rec := serve(newTestServer(nil), httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[errorResponse](t, rec).Error)
}

func TestCatalogue(t *testing.T) {
	rec := serve(newTestServer(nil), httptest.NewRequest(http.MethodGet, "/api/catalogue", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decode[catalogue.Document](t, rec)
	assert.Equal(t, "v1.0.0", doc.Version)
	assert.Len(t, doc.Rules, 5)
	assert.Len(t, doc.Symptoms, 14)
	assert.Len(t, doc.Diseases, 5)
}

func TestDiagnose(t *testing.T) {
	body := `{"symptoms":["ramas_secas","corteza_rajada"],"observations":{"muerte_planta":true,"plagas":false},"advice":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", strings.NewReader(body))
	rec := serve(newTestServer(nil), req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[diagnoseResponse](t, rec)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), resp.RequestID)
	require.Len(t, resp.Results, 5)
	assert.Len(t, resp.Trace, 5)
	require.Len(t, resp.Ranked, 1)
	assert.Equal(t, "R3", resp.Ranked[0].RuleID)
	assert.InDelta(t, 1.0, resp.Ranked[0].Score, 1e-9)
	assert.InDelta(t, 0.7, resp.Risk.Score, 1e-9)
	require.NotNil(t, resp.Advice)
	assert.EqualValues(t, "static", resp.Advice.Source)
}

func TestDiagnose_BadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", strings.NewReader("{"))
	rec := serve(newTestServer(nil), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Error, "invalid request body")
}

func TestClassify(t *testing.T) {
	s := newTestServer(loaderFor(stubModel{probs: cancroProbs}))
	rec := serve(s, multipartRequest(t, "/api/classify", pngBytes(t), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[classifyResponse](t, rec)
	assert.Equal(t, "durazno-cnn", resp.Model)
	// Allowlisted classes stay even at zero probability; ties keep model order.
	require.Len(t, resp.Predictions, 4)
	got := make([]string, len(resp.Predictions))
	for i, p := range resp.Predictions {
		got[i] = p.Disease
	}
	assert.Equal(t, []string{"Cancro bacteriano", "Áfidos", "Monilia", "Oídio"}, got)
	assert.Equal(t, "Taladro", resp.Predictions[0].RawClass)
	assert.InDelta(t, 0.8, resp.Predictions[0].Probability, 1e-9)
	assert.InDelta(t, 0.15, resp.Predictions[1].Probability, 1e-9)
	assert.Zero(t, resp.Predictions[2].Probability)
	assert.Zero(t, resp.Predictions[3].Probability)
}

func TestClassify_Errors(t *testing.T) {
	noModel := classifier.NewLoader(func() (*classifier.Classifier, error) { return nil, classifier.ErrNoModel })
	down := &classifier.ErrModelUnavailable{StatusCode: 503, Err: errors.New("overloaded")}

	tests := []struct {
		name   string
		c      Classifiers
		img    []byte
		status int
	}{
		{"not configured", nil, nil, http.StatusServiceUnavailable},
		{"no model", noModel, nil, http.StatusServiceUnavailable},
		{"missing image", loaderFor(stubModel{probs: cancroProbs}), nil, http.StatusBadRequest},
		{"not an image", loaderFor(stubModel{probs: cancroProbs}), []byte("hello"), http.StatusBadRequest},
		{"model down", loaderFor(stubModel{err: down}), pngBytes(t), http.StatusBadGateway},
		{"model timeout", loaderFor(stubModel{block: true}), pngBytes(t), http.StatusGatewayTimeout},
		{"length mismatch", loaderFor(stubModel{probs: []float64{1}}), pngBytes(t), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newTestServer(tt.c), multipartRequest(t, "/api/classify", tt.img, nil))
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
		})
	}
}

func TestCompare(t *testing.T) {
	s := newTestServer(loaderFor(stubModel{probs: cancroProbs}))

	tests := []struct {
		name    string
		fields  map[string][]string
		outcome string
	}{
		{"agree", map[string][]string{"symptom": {"ramas_secas", "corteza_rajada"}}, "agree"},
		{"agree via json", map[string][]string{"observations": {`{"muerte_planta":true}`}}, "agree"},
		{"disagree", map[string][]string{"symptom": {"polvo_blanco"}}, "disagree"},
		{"form no signal", nil, "form_no_signal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, multipartRequest(t, "/api/compare", pngBytes(t), tt.fields))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			resp := decode[map[string]any](t, rec)
			assert.Equal(t, tt.outcome, resp["outcome"])
			assert.NotEmpty(t, resp["message"])
			assert.NotEmpty(t, resp["request_id"])
		})
	}
}

func TestCompare_BadObservations(t *testing.T) {
	s := newTestServer(loaderFor(stubModel{probs: cancroProbs}))
	req := multipartRequest(t, "/api/compare", pngBytes(t), map[string][]string{"observations": {"[1,2"}})
	rec := serve(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReport(t *testing.T) {
	s := newTestServer(nil)
	body := `{"symptoms":["polvo_blanco","manchas_hojas"]}`

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<table>")
	assert.Contains(t, rec.Body.String(), "Oídio")

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/api/report?format=markdown", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "# "))

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/api/report?format=pdf", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer(nil).ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
