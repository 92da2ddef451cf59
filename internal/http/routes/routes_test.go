package routes

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-captioning/internal/config"
	"github.com/phambaophuc/image-captioning/internal/http/handlers"
	"github.com/phambaophuc/image-captioning/internal/models"
	"github.com/phambaophuc/image-captioning/internal/services/captioner"
	"github.com/phambaophuc/image-captioning/internal/services/processor"
	"github.com/phambaophuc/image-captioning/internal/services/storage"
	"go.uber.org/zap"
)

const testMaxFileSize = 1 << 20

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestEngineWithLimit(t, testMaxFileSize)
}

func newTestEngineWithLimit(t *testing.T, maxFileSize int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := processor.NewImageProcessor(zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	svc := captioner.NewService(engine, models.DefaultCaptionOptions(), maxFileSize, zap.NewNop())
	store := storage.NewStorageService(&config.Config{})
	h := handlers.NewCaptionHandler(svc, store, nil, zap.NewNop())
	return NewRouter(h, zap.NewNop(), maxFileSize).SetupRoutes()
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func captionRequest(t *testing.T, path string, file []byte, caption string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if file != nil {
		fw, err := mw.CreateFormFile("file", "photo.png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	mw.WriteField("caption", caption)
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCaptionEndpoint(t *testing.T) {
	router := newTestEngine(t)

	for _, path := range []string{"/api/caption", "/api/v1/captions"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, captionRequest(t, path, testPNG(t, 200, 100), "A"))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != "image/webp" {
				t.Errorf("Content-Type = %q, want image/webp", got)
			}
			if rec.Body.Len() == 0 {
				t.Error("empty body")
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID")
			}
		})
	}
}

func TestCaptionEndpointClientErrors(t *testing.T) {
	router := newTestEngine(t)

	tests := []struct {
		name    string
		file    []byte
		caption string
	}{
		{"no file", nil, "A"},
		{"spaces only caption", testPNG(t, 50, 50), "    "},
		{"not an image", []byte("definitely not an image"), "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, captionRequest(t, "/api/caption", tt.file, tt.caption))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %q", rec.Body.String())
			}
			if body.Error == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestCaptionEndpointRequiresMultipart(t *testing.T) {
	router := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/caption", bytes.NewBufferString(`{"caption":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestJobsWithoutQueue(t *testing.T) {
	router := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/captions/jobs",
		bytes.NewBufferString(`{"image_url":"https://example.com/a.png","options":{"caption":"A"}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	router := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	headers := map[string]string{
		"X-Request-ID":                "req-123",
		"X-Content-Type-Options":      "nosniff",
		"X-Frame-Options":             "DENY",
		"Access-Control-Allow-Origin": "*",
	}
	for k, want := range headers {
		if got := rec.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/caption", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestEngine(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data models.HealthCheck `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"redis", "supabase", "rabbitmq"} {
		if resp.Data.Services[name] != "not configured" {
			t.Errorf("%s = %q", name, resp.Data.Services[name])
		}
	}
}

func TestCaptionEndpointUnencodableCaptions(t *testing.T) {
	router := newTestEngine(t)

	for _, caption := range []string{"hello\x01world", "bad \xff utf8", "tab\vvt"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, captionRequest(t, "/api/caption", testPNG(t, 200, 100), caption))

		if rec.Code != http.StatusOK {
			t.Errorf("caption %q: status = %d, body %s", caption, rec.Code, rec.Body.String())
			continue
		}
		if got := rec.Header().Get("Content-Type"); got != "image/webp" {
			t.Errorf("caption %q: Content-Type = %q", caption, got)
		}
	}
}

func TestCaptionEndpointBodyLimit(t *testing.T) {
	// PNG decoding stops at IEND, so trailing padding only grows the upload.
	padded := append(testPNG(t, 200, 100), make([]byte, 3<<20)...)

	tests := []struct {
		name        string
		maxFileSize int64
		wantStatus  int
	}{
		{"unlimited", 0, http.StatusOK},
		{"over limit", 1 << 20, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestEngineWithLimit(t, tt.maxFileSize)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, captionRequest(t, "/api/caption", padded, "A"))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %.200s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
