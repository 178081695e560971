package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"vehicle-damage-ai/config"
	"vehicle-damage-ai/internal/container"
	"vehicle-damage-ai/internal/domain/entity"
	"vehicle-damage-ai/internal/infrastructure/imaging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeDetector отдаёт заранее заданные результаты в порядке вызовов.
type fakeDetector struct {
	results []*entity.DetectionSet
	calls   int
}

func (f *fakeDetector) Detect(ctx context.Context, imageData []byte) (*entity.DetectionSet, error) {
	set := f.results[f.calls]
	f.calls++
	return set, nil
}

type fakeClassifier struct {
	pred entity.SeverityPrediction
}

func (f *fakeClassifier) Classify(ctx context.Context, patch *entity.Patch) (entity.SeverityPrediction, error) {
	return f.pred, nil
}

func newTestServer(t *testing.T, detector *fakeDetector) (*Server, string) {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := &config.Config{Port: "0", TmpDir: tmpDir}
	c := container.New(detector, &fakeClassifier{
		pred: entity.SeverityPrediction{Label: entity.SeverityMinor, Confidence: 0.7},
	}, imaging.NewPatchExtractor(32))
	return NewServer(cfg, c), tmpDir
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartBody собирает тело запроса с файловыми полями.
func multipartBody(t *testing.T, fields map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range fields {
		fw, err := w.CreateFormFile(name, name+".png")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "temporary files must be removed after the request")
}

func TestRoot(t *testing.T) {
	srv, _ := newTestServer(t, &fakeDetector{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	srv.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "Vehicle Damage AI API", body["message"])
}

func TestAnalyze_NoDetections(t *testing.T) {
	srv, tmpDir := newTestServer(t, &fakeDetector{results: []*entity.DetectionSet{
		{ImageWidth: 100, ImageHeight: 80},
		{ImageWidth: 100, ImageHeight: 80},
	}})

	body, contentType := multipartBody(t, map[string][]byte{
		"before": pngBytes(t, 100, 80),
		"after":  pngBytes(t, 100, 80),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	srv.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		InspectionID string            `json:"inspectionId"`
		Damages      []json.RawMessage `json:"damages"`
		Message      string            `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.InspectionID)
	require.Empty(t, resp.Damages)
	require.Equal(t, "No damage detected in either image.", resp.Message)

	requireEmptyDir(t, tmpDir)
}

func TestAnalyze_WithDetections(t *testing.T) {
	beforeSet := &entity.DetectionSet{
		ImageWidth:  100,
		ImageHeight: 80,
		Detections: []entity.Detection{
			{Box: entity.PixelBox{X1: 10, Y1: 10, X2: 60, Y2: 50}, Label: "scratch", Confidence: 0.8},
		},
	}
	afterSet := &entity.DetectionSet{
		ImageWidth:  100,
		ImageHeight: 80,
		Detections: []entity.Detection{
			{Box: entity.PixelBox{X1: 60, Y1: 0, X2: 100, Y2: 30}, Label: "dent", Confidence: 0.9},
		},
	}
	srv, tmpDir := newTestServer(t, &fakeDetector{results: []*entity.DetectionSet{beforeSet, afterSet}})

	body, contentType := multipartBody(t, map[string][]byte{
		"before": pngBytes(t, 100, 80),
		"after":  pngBytes(t, 100, 80),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	srv.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Damages []struct {
			ID        string  `json:"id"`
			ImageType string  `json:"imageType"`
			Area      string  `json:"area"`
			Type      string  `json:"type"`
			Severity  string  `json:"severity"`
			BBox      struct{ X, Y, Width, Height float64 } `json:"bbox"`
		} `json:"damages"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Damage detected successfully.", resp.Message)
	require.Len(t, resp.Damages, 2)
	require.Equal(t, "before-0", resp.Damages[0].ID)
	require.Equal(t, "before", resp.Damages[0].ImageType)
	require.Equal(t, "Scratch", resp.Damages[0].Type)
	require.Equal(t, "minor", resp.Damages[0].Severity)
	require.Equal(t, "after-0", resp.Damages[1].ID)
	require.Equal(t, "after", resp.Damages[1].ImageType)

	// Зона и нормализованная рамка тоже часть контракта ответа.
	require.Equal(t, "center", resp.Damages[0].Area)
	require.InDelta(t, 0.1, resp.Damages[0].BBox.X, 1e-9)
	require.InDelta(t, 0.125, resp.Damages[0].BBox.Y, 1e-9)
	require.InDelta(t, 0.5, resp.Damages[0].BBox.Width, 1e-9)
	require.InDelta(t, 0.5, resp.Damages[0].BBox.Height, 1e-9)

	require.Equal(t, "top right", resp.Damages[1].Area)
	require.InDelta(t, 0.6, resp.Damages[1].BBox.X, 1e-9)
	require.InDelta(t, 0.0, resp.Damages[1].BBox.Y, 1e-9)
	require.InDelta(t, 0.4, resp.Damages[1].BBox.Width, 1e-9)
	require.InDelta(t, 0.375, resp.Damages[1].BBox.Height, 1e-9)

	requireEmptyDir(t, tmpDir)
}

func TestAnalyze_MissingField(t *testing.T) {
	srv, tmpDir := newTestServer(t, &fakeDetector{})

	body, contentType := multipartBody(t, map[string][]byte{
		"before": pngBytes(t, 100, 80),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	srv.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	requireEmptyDir(t, tmpDir)
}

func TestAnalyze_MalformedImage(t *testing.T) {
	srv, tmpDir := newTestServer(t, &fakeDetector{})

	body, contentType := multipartBody(t, map[string][]byte{
		"before": []byte("not an image at all"),
		"after":  pngBytes(t, 100, 80),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", contentType)
	srv.Engine().ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "AI analysis failed.", resp["detail"])

	// Никаких частичных результатов и забытых временных файлов.
	requireEmptyDir(t, tmpDir)
}
