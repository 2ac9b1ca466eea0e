package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sooryaraj/folio/internal/config"
	"github.com/sooryaraj/folio/internal/contact"
	"github.com/sooryaraj/folio/internal/content"
	"github.com/sooryaraj/folio/internal/logging"
	"github.com/sooryaraj/folio/internal/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, environment string) *config.Config {
	t.Helper()

	assets := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "images", "photo1.jpg"), []byte("jpeg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(assets, ".env"), []byte("SECRET=1"), 0o644))

	return &config.Config{
		Server: config.ServerConfig{
			Host:        "localhost",
			Port:        8080,
			Environment: environment,
		},
		Site: config.SiteConfig{Assets: assets},
		Development: config.DevelopmentConfig{
			LiveReload: true,
			Debounce:   20 * time.Millisecond,
		},
	}
}

func newTestServer(t *testing.T, environment string, store *content.Store) *Server {
	t.Helper()

	if store == nil {
		store = content.NewStaticStore(content.Default(), logging.NewNopLogger())
	}

	s, err := New(testConfig(t, environment), store, logging.NewNopLogger())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Equal(t, 3, strings.Count(body, `<figure class="photo"`))
	assert.Equal(t, 2, strings.Count(body, `<div class="video"`))
	assert.Equal(t, 3, strings.Count(body, `<div class="project"`))
	assert.Contains(t, body, `action="/contact"`)
	assert.Contains(t, body, "&copy; 2026 Sooryaraj")
	assert.NotContains(t, body, "WebSocket", "live reload is development only")
}

func TestIndexDevelopmentIncludesLiveReload(t *testing.T) {
	s := newTestServer(t, config.EnvDevelopment, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/ws"`)
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "ws:")
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "form-action 'self' mailto:")
	assert.Contains(t, csp, "media-src 'self'")
	assert.Contains(t, csp, "upgrade-insecure-requests")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"), "HSTS only over TLS")
}

func TestContactRedirectsToMailto(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	rec := serve(s, postForm(url.Values{
		"name":    {"Ava O'Brien"},
		"message": {"Hi!\nLove your work."},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code)

	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "mailto:sooryaraj.dev@gmail.com?"), location)

	msg, err := contact.ParseMailto(location)
	require.NoError(t, err)
	assert.Equal(t, content.DefaultEmail, msg.Recipient)
	assert.Equal(t, content.DefaultSubject, msg.Subject)
	assert.Equal(t, "Name: Ava O'Brien\n\nMessage:\nHi!\nLove your work.", msg.Body)
}

func TestContactNormalizesLineBreaks(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	testCases := []struct {
		name    string
		message string
	}{
		{"crlf", "Hi!\r\nLove your work."},
		{"lone cr", "Hi!\rLove your work."},
		{"lf", "Hi!\nLove your work."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, postForm(url.Values{
				"name":    {"Ava O'Brien"},
				"message": {tc.message},
			}))
			require.Equal(t, http.StatusSeeOther, rec.Code)

			location := rec.Header().Get("Location")
			assert.NotContains(t, location, "%0D")
			assert.True(t, strings.HasSuffix(location,
				"&body=Name%3A%20Ava%20O'Brien%0A%0AMessage%3A%0AHi!%0ALove%20your%20work."), location)

			msg, err := contact.ParseMailto(location)
			require.NoError(t, err)
			assert.Equal(t, "Name: Ava O'Brien\n\nMessage:\nHi!\nLove your work.", msg.Body)
		})
	}
}

func TestContactUsesPostedSubject(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	rec := serve(s, postForm(url.Values{
		"name":    {"Ava"},
		"message": {"Hello"},
		"subject": {"Wedding shoot"},
	}))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "subject=Wedding%20shoot&")
}

func TestContactMissingFields(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	testCases := []struct {
		name   string
		values url.Values
		kept   string
	}{
		{"missing name", url.Values{"message": {"draft kept"}}, "draft kept"},
		{"missing message", url.Values{"name": {"Ava Draft"}}, `value="Ava Draft"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(s, postForm(tc.values))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.Contains(t, rec.Body.String(), missingFieldsNotice)
			assert.Contains(t, rec.Body.String(), tc.kept)
		})
	}
}

func TestContactRejectsForeignOrigin(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	req := postForm(url.Values{"name": {"Ava"}, "message": {"Hi"}})
	req.Header.Set("Origin", "https://evil.example.com")

	rec := serve(s, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = postForm(url.Values{"name": {"Ava"}, "message": {"Hi"}})
	req.Header.Set("Origin", "http://"+req.Host)
	assert.Equal(t, http.StatusSeeOther, serve(s, req).Code)
}

func TestContactMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	rec := serve(s, httptest.NewRequest(http.MethodPut, "/contact", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMailtoPreview(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	q := url.Values{"name": {"Ava"}, "message": {"Hi there"}}
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/mailto?"+q.Encode(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var sub contact.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	assert.Equal(t, content.DefaultSubject, sub.Subject)
	assert.Equal(t, "Name: Ava\n\nMessage:\nHi there", sub.Body)
	assert.Equal(t, contact.BuildMailto(content.DefaultEmail, sub.Subject, sub.Body), sub.URI)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Checks  struct {
			Content struct {
				Photos   int `json:"photos"`
				Videos   int `json:"videos"`
				Projects int `json:"projects"`
			} `json:"content"`
			LiveReload struct {
				Enabled bool `json:"enabled"`
			} `json:"live_reload"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))

	assert.Equal(t, "healthy", health.Status)
	assert.NotEmpty(t, health.Version)
	assert.Equal(t, 3, health.Checks.Content.Photos)
	assert.Equal(t, 2, health.Checks.Content.Videos)
	assert.Equal(t, 3, health.Checks.Content.Projects)
	assert.False(t, health.Checks.LiveReload.Enabled)
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, config.EnvProduction, nil)

	testCases := []struct {
		path   string
		status int
	}{
		{"/images/photo1.jpg", http.StatusOK},
		{"/images/", http.StatusNotFound},
		{"/images/missing.jpg", http.StatusNotFound},
		{"/.env", http.StatusNotFound},
		{"/ws", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestLiveReloadSocketThroughMiddleware(t *testing.T) {
	s := newTestServer(t, config.EnvDevelopment, nil)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"hello"`)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RecoveryMiddleware(logging.NewNopLogger()))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestContentChangeReloadsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: Before\n"), 0o644))

	store, err := content.NewStore(path, logging.NewNopLogger())
	require.NoError(t, err)

	s := newTestServer(t, config.EnvDevelopment, store)
	ctx := context.Background()
	events := []watcher.ChangeEvent{{Type: watcher.EventTypeModified, Path: path}}

	require.NoError(t, os.WriteFile(path, []byte("name: After\n"), 0o644))
	require.NoError(t, s.handleFileChange(ctx, path, events))
	assert.Equal(t, "After", store.Site().Name)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, rec.Body.String(), "After")

	require.NoError(t, os.WriteFile(path, []byte("email: not-an-address\n"), 0o644))
	assert.Error(t, s.handleFileChange(ctx, path, events))
	assert.Equal(t, "After", store.Site().Name, "invalid content keeps the previous snapshot")
}
