package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/text2pdf/config"
	"github.com/ByLCY/text2pdf/convert"
	"github.com/ByLCY/text2pdf/fonts"
	"github.com/ByLCY/text2pdf/layout"
	"github.com/ByLCY/text2pdf/renderer"
)

type fakeRenderer struct{}

func (fakeRenderer) Measure(s string, size float64) float64 {
	return float64(len([]rune(s))) * size / 2
}

func (fakeRenderer) Render(plan *layout.Plan) ([]byte, error) {
	return []byte("%PDF-1.7 fake"), nil
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	conv := convert.New(
		convert.WithMaxTextLength(cfg.MaxTextLength),
		convert.WithRendererFactory(func(fonts.Family) (renderer.MeasuringRenderer, error) {
			return fakeRenderer{}, nil
		}),
	)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(conv, nil, log, cfg)
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestTemplates(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/templates", nil))
	var got []struct {
		ID      string         `json:"id"`
		Label   string         `json:"label"`
		Options map[string]any `json:"options"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode templates: %v", err)
	}
	if len(got) != 3 || got[1].ID != "tech-notes" || got[1].Options["fontSize"] != 11.0 {
		t.Fatalf("unexpected templates %+v", got)
	}
}

func TestConvertJSON(t *testing.T) {
	s := newTestServer(t, nil)
	rec := postJSON(t, s, "/api/convert", map[string]any{
		"text":     "Meeting notes\nSecond line",
		"template": "report",
		"options":  map[string]any{"fontSize": 10},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="meeting-notes.pdf"` {
		t.Fatalf("content disposition = %q", cd)
	}
	if rec.Header().Get(headerPageCount) != "1" {
		t.Fatalf("page count = %q", rec.Header().Get(headerPageCount))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF")
	}
}

func TestConvertErrors(t *testing.T) {
	s := newTestServer(t, nil)
	cases := []struct {
		name string
		body any
		code int
		msg  string
	}{
		{"empty text", map[string]any{"text": "   "}, http.StatusBadRequest, "No text provided"},
		{"too long", map[string]any{"text": strings.Repeat("a", 50_001)}, http.StatusRequestEntityTooLarge,
			"Text exceeds 50,000 character limit"},
		{"unknown template", map[string]any{"text": "hi", "template": "poster"}, http.StatusBadRequest,
			`unknown template: "poster"`},
	}
	for _, tc := range cases {
		rec := postJSON(t, s, "/api/convert", tc.body)
		if rec.Code != tc.code {
			t.Fatalf("%s: status = %d, want %d (%s)", tc.name, rec.Code, tc.code, rec.Body.String())
		}
		if got := errorMessage(t, rec); got != tc.msg {
			t.Fatalf("%s: error = %q, want %q", tc.name, got, tc.msg)
		}
	}
}

func TestConvertInvalidOptions(t *testing.T) {
	s := newTestServer(t, nil)
	rec := postJSON(t, s, "/api/convert", map[string]any{
		"text":    "hello",
		"options": `{"fontSize": 30, "pageSize": "A5"}`,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Error fieldErrors `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var fields []string
	for f := range body.Error.FieldErrors {
		fields = append(fields, f)
	}
	if len(fields) != 2 || body.Error.FieldErrors["fontSize"] == nil || body.Error.FieldErrors["pageSize"] == nil {
		t.Fatalf("unexpected field errors %v", body.Error.FieldErrors)
	}

	rec = postJSON(t, s, "/api/convert", map[string]any{
		"text":    "hello",
		"options": map[string]any{"showPageNumbers": "yes"},
	})
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"expected boolean, received string"}
	if diff := cmp.Diff(want, body.Error.FieldErrors["showPageNumbers"]); rec.Code != http.StatusBadRequest || diff != "" {
		t.Fatalf("type error mismatch (status %d):\n%s", rec.Code, diff)
	}
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		io.WriteString(fw, content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestConvertMultipartUpload(t *testing.T) {
	s := newTestServer(t, nil)
	body, ct := multipartBody(t, map[string]string{
		"filename": "Upload Test",
		"options":  `{"orientation":"landscape"}`,
		"text":     "ignored when a file is present",
	}, "notes.md", "# Heading\n\nBody text")
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="upload-test.pdf"` {
		t.Fatalf("content disposition = %q", cd)
	}
}

func TestConvertMultipartRejectsUploads(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.MaxFileSize = 64 })

	body, ct := multipartBody(t, nil, "deck.pptx", "binary")
	req := httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("unsupported upload status = %d", rec.Code)
	}

	body, ct = multipartBody(t, nil, "big.txt", strings.Repeat("x", 200))
	req = httptest.NewRequest(http.MethodPost, "/api/convert", body)
	req.Header.Set("Content-Type", ct)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized upload status = %d", rec.Code)
	}
	if got := errorMessage(t, rec); got != "File exceeds 64 bytes limit" {
		t.Fatalf("error = %q", got)
	}
}

func TestPreviewReturnsPlan(t *testing.T) {
	s := newTestServer(t, nil)
	rec := postJSON(t, s, "/api/preview", map[string]any{
		"text":    strings.Repeat("line\n", 100),
		"options": map[string]any{"showPageNumbers": true},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var plan layout.Plan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if len(plan.Pages) != 3 || plan.Pages[2].Footer == nil || plan.Pages[2].Footer.Text != "Page 3" {
		t.Fatalf("unexpected plan: %d pages", len(plan.Pages))
	}
	if rec.Header().Get(headerPageCount) != "3" {
		t.Fatalf("page count header = %q", rec.Header().Get(headerPageCount))
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.RateLimit = config.RateLimit{Max: 2, Window: time.Minute}
	})
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		s.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d", last.Code)
	}
	if got := errorMessage(t, last); got != "Too many requests, please try again later." {
		t.Fatalf("error = %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/convert", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}
}
