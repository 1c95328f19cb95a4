package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cozy-creator/breed-classifier/internal/api"
	"github.com/cozy-creator/breed-classifier/internal/classifier"
	"github.com/cozy-creator/breed-classifier/internal/config"
	"github.com/cozy-creator/breed-classifier/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, predictor classifier.Predictor) (*Server, string) {
	t.Helper()

	publicDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "style.css"), []byte("body{}"), 0o644))

	cfg := &config.Config{
		Environment: "test",
		Host:        "127.0.0.1",
		Port:        5000,
		PublicDir:   publicDir,
	}

	s, err := NewServer(cfg, nil)
	require.NoError(t, err)
	s.SetupRoutes(api.NewHandler(predictor, nil))

	return s, publicDir
}

func TestHomepageServed(t *testing.T) {
	s, _ := newTestServer(t, new(testutil.MockPredictor))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.Contains(t, w.Body.String(), "Dog Breed Classifier")
}

func TestStaticAssets(t *testing.T) {
	s, _ := newTestServer(t, new(testutil.MockPredictor))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{}", w.Body.String())

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSHeaders(t *testing.T) {
	s, _ := newTestServer(t, new(testutil.MockPredictor))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://other.test")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	preflight := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	preflight.Header.Set("Origin", "http://other.test")
	preflight.Header.Set("Access-Control-Request-Method", "POST")
	preflight.Header.Set("Access-Control-Request-Headers", "X-Requested-With, Content-Type")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, preflight)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	allowed := w.Header().Get("Access-Control-Allow-Headers")
	assert.Contains(t, allowed, "X-Requested-With")
	assert.Contains(t, allowed, "Content-Type")
}

func TestAnalyzeThroughServer(t *testing.T) {
	predictor := new(testutil.MockPredictor)
	predictor.On("Predict", mock.Anything, mock.Anything).
		Return(&classifier.Prediction{Label: "golden_retriever"}, nil)
	s, _ := newTestServer(t, predictor)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "dog.png")
	require.NoError(t, err)
	_, err = part.Write(testutil.OnePixelPNG())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "golden_retriever", resp.Result)
}

func TestRecoversFromPanickingPredictor(t *testing.T) {
	predictor := new(testutil.MockPredictor)
	predictor.On("Predict", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("tensor shape") })
	s, _ := newTestServer(t, predictor)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "dog.png")
	part.Write(testutil.OnePixelPNG())
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestStartStop(t *testing.T) {
	cfg := &config.Config{Environment: "test", Host: "127.0.0.1", Port: freePort(t), PublicDir: t.TempDir()}
	s, err := NewServer(cfg, nil)
	require.NoError(t, err)
	s.SetupRoutes(api.NewHandler(new(testutil.MockPredictor), nil))

	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + s.Addr() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, errors.Is(<-errc, http.ErrServerClosed))
}

func TestGinMode(t *testing.T) {
	assert.Equal(t, "debug", getGinMode("dev"))
	assert.Equal(t, "test", getGinMode("test"))
	assert.Equal(t, "release", getGinMode("prod"))
}
