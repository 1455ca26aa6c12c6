package media_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"shelfvision-backend/internal/media"
	"shelfvision-backend/internal/shared/server/middleware"
	"shelfvision-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &media.Service{
		Store: local.New(t.TempDir()),
		Repo:  media.NewMemoryRepo(),
	}

	r := gin.New()
	r.Use(middleware.Session())
	media.NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func multipartBody(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadEndpointReturnsMedia(t *testing.T) {
	r := newTestRouter(t)

	body, contentType := multipartBody(t, "shelf.mp4", []byte("fake video bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Session-Id", "session-1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("X-Session-Id"); got != "session-1" {
		t.Fatalf("session header = %q", got)
	}

	var out media.MediaResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.MediaID == "" {
		t.Fatal("mediaId missing")
	}
	if out.Kind != string(media.KindVideo) {
		t.Fatalf("kind = %q", out.Kind)
	}
}

func TestUploadEndpointRejectsUnsupportedFile(t *testing.T) {
	r := newTestRouter(t)

	body, contentType := multipartBody(t, "resume.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Session-Id", "session-1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
}

func TestUploadEndpointRequiresFile(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.Code)
	}
}

func TestGetEndpointIsolatesSessions(t *testing.T) {
	r := newTestRouter(t)

	body, contentType := multipartBody(t, "shelf.jpg", []byte("jpegdata"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Session-Id", "session-1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", resp.Code)
	}

	var uploaded media.MediaResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode: %v", err)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/v1/media/"+uploaded.MediaID, nil)
	get.Header.Set("X-Session-Id", "session-2")
	getResp := httptest.NewRecorder()
	r.ServeHTTP(getResp, get)

	if getResp.Code != http.StatusNotFound {
		t.Fatalf("cross-session status = %d, want 404", getResp.Code)
	}
}
