package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/layout"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore is an in-memory ResumeStore and TemplateStore.
type mockStore struct {
	mu        sync.Mutex
	resumes   map[uuid.UUID]*db.ResumeRecord
	templates map[uuid.UUID]*db.TemplateRecord
	err       error
}

func newMockStore() *mockStore {
	return &mockStore{
		resumes:   make(map[uuid.UUID]*db.ResumeRecord),
		templates: make(map[uuid.UUID]*db.TemplateRecord),
	}
}

func (m *mockStore) CreateResume(_ context.Context, userID uuid.UUID, title string, resume *types.Resume) (*db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	now := time.Now()
	rec := &db.ResumeRecord{ID: uuid.New(), UserID: userID, Title: title, Resume: resume, CreatedAt: now, UpdatedAt: now}
	m.resumes[rec.ID] = rec
	return rec, nil
}

func (m *mockStore) GetResume(_ context.Context, id uuid.UUID) (*db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockStore) ListResumes(_ context.Context, userID uuid.UUID) ([]db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []db.ResumeRecord{}
	for _, rec := range m.resumes {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *mockStore) SaveResume(_ context.Context, id uuid.UUID, title string, resume *types.Resume) (*db.ResumeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.resumes[id]
	if !ok {
		return nil, nil
	}
	rec.Title = title
	rec.Resume = resume
	rec.UpdatedAt = time.Now()
	cp := *rec
	return &cp, nil
}

func (m *mockStore) DeleteResume(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resumes[id]; !ok {
		return false, nil
	}
	delete(m.resumes, id)
	return true, nil
}

func (m *mockStore) CreateTemplate(_ context.Context, t *db.TemplateRecord) (*db.TemplateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	cp := *t
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.templates[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockStore) GetTemplate(_ context.Context, id uuid.UUID) (*db.TemplateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.templates[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockStore) ListTemplates(_ context.Context, userID uuid.UUID) ([]db.TemplateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.TemplateRecord{}
	for _, rec := range m.templates {
		if rec.VisibleTo(userID) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockStore) UpdateTemplate(_ context.Context, t *db.TemplateRecord) (*db.TemplateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[t.ID]; !ok {
		return nil, nil
	}
	cp := *t
	cp.UpdatedAt = time.Now()
	m.templates[t.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockStore) DeleteTemplate(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return false, nil
	}
	delete(m.templates, id)
	return true, nil
}

type fakeParser struct {
	resume *types.Resume
	err    error
	got    string
}

func (f *fakeParser) ParseResumeText(_ context.Context, rawText string) (*types.Resume, error) {
	f.got = rawText
	if f.err != nil {
		return nil, f.err
	}
	return f.resume, nil
}

type fakeExporter struct {
	err  error
	html string
}

func (f *fakeExporter) Export(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

// testServer wires a Server to in-memory collaborators
type testServer struct {
	*Server
	store    *mockStore
	parser   *fakeParser
	exporter *fakeExporter
	jwt      *JWTService
	userID   uuid.UUID
	token    string
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWithLimits(t, &ratelimit.Config{Enabled: false})
}

func newTestServerWithLimits(t *testing.T, limits *ratelimit.Config) *testServer {
	t.Helper()
	store := newMockStore()
	parser := &fakeParser{resume: types.NewResume()}
	exporter := &fakeExporter{}
	jwtService := NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		Issuer:          config.DefaultJWTIssuer,
		ExpirationHours: 1,
	})

	s := New(Options{
		Resumes:     store,
		Templates:   store,
		Parser:      parser,
		Exporter:    exporter,
		Metrics:     observability.NewMetrics(),
		RateLimiter: ratelimit.NewLimiter(limits),
		JWT:         jwtService,
		PageSize:    "Letter",
	})
	t.Cleanup(s.rateLimiter.Stop)

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID)
	require.NoError(t, err)

	return &testServer{Server: s, store: store, parser: parser, exporter: exporter, jwt: jwtService, userID: userID, token: token}
}

// tokenFor issues a token for another user.
func (ts *testServer) tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := ts.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func sampleLayout(t *testing.T) json.RawMessage {
	t.Helper()
	s := layout.NewStore(layout.New("Sidebar", layout.LayoutLeftSidebar))
	s.AddSection(layout.SectionHeader, "", layout.Main())
	s.AddSection(layout.SectionSkills, "Skills", layout.Sidebar())
	s.AddSection(layout.SectionExperience, "Experience", layout.Main())
	data, err := layout.Encode(s.Template())
	require.NoError(t, err)
	return data
}

const sampleResumeJSON = `{
	"name": "Ada Lovelace",
	"title": "Analyst",
	"email": "ada@example.com",
	"skills": [{"id": "s1", "name": "Mathematics", "level": 5}, {"id": "s2", "name": "Notation", "level": 4}],
	"experience": [{"id": "e1", "company": "Analytical Engine Co", "position": "Programmer"}]
}`

func (ts *testServer) createResume(t *testing.T) db.ResumeRecord {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/resumes", ts.token,
		`{"title": "Engineering CV", "resume": `+sampleResumeJSON+`}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[db.ResumeRecord](t, w)
}

func (ts *testServer) createTemplate(t *testing.T, public bool) db.TemplateRecord {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/templates", ts.token, types.TemplateRequest{
		Name:     "Classic",
		IsPublic: public,
		Layout:   sampleLayout(t),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[db.TemplateRecord](t, w)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decodeBody[map[string]string](t, w))
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/health", "", nil)

	w := ts.do(t, http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `resume_builder_http_requests_total{method="GET",route="GET /health",status="200"} 1`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/resumes"},
		{http.MethodPost, "/resumes"},
		{http.MethodGet, "/resumes/" + uuid.NewString()},
		{http.MethodPost, "/resumes/parse"},
		{http.MethodGet, "/templates"},
		{http.MethodPost, "/render"},
		{http.MethodGet, "/resumes/" + uuid.NewString() + "/export"},
	}
	for _, rt := range routes {
		w := ts.do(t, rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodOptions, "/resumes", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimit_ParseEndpoint(t *testing.T) {
	ts := newTestServerWithLimits(t, &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/resumes/parse", Method: http.MethodPost, Limit: 1, Window: time.Hour, Burst: 1},
		},
	})

	first := ts.do(t, http.MethodPost, "/resumes/parse", ts.token, nil)
	assert.NotEqual(t, http.StatusTooManyRequests, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := ts.do(t, http.MethodPost, "/resumes/parse", ts.token, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	body := decodeBody[map[string]any](t, second)
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	// Other endpoints keep their own budget.
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/resumes", ts.token, nil).Code)
}

func TestExtractClientID(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ts.extractClientID(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", ts.extractClientID(req))
}

func TestWriteError_HidesUpstreamDetail(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	ts.writeError(w, req, &parsing.APICallError{Message: "quota exceeded for key abc123"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "abc123")
}

func TestWriteError_StorageFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.store.err = errors.New("connection refused")

	w := ts.do(t, http.MethodGet, "/resumes", ts.token, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeBody[map[string]string](t, w)["error"])
}

func TestExportUnavailableWithoutExporter(t *testing.T) {
	ts := newTestServer(t)
	ts.exporter = nil
	ts.Server.exporter = nil

	w := ts.do(t, http.MethodGet, "/resumes/"+uuid.NewString()+"/export?template_id="+uuid.NewString(), ts.token, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestParseUpload_Multipart(t *testing.T) {
	ts := newTestServer(t)
	parsed := types.NewResume()
	parsed.Name = "Ada Lovelace"
	ts.parser.resume = parsed

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "resume.md")
	require.NoError(t, err)
	_, err = part.Write([]byte("# Ada Lovelace\r\n\r\n• Wrote the first program\r\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/resumes/parse", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.token)
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[ParseResponse](t, w)
	assert.Equal(t, "Ada Lovelace", resp.Resume.Name)
	require.NotNil(t, resp.Upload)
	assert.Equal(t, "resume.md", resp.Upload.Filename)
	assert.Equal(t, "# Ada Lovelace\n\n- Wrote the first program", ts.parser.got)

	// Parsed resumes are returned, never stored.
	assert.Empty(t, ts.store.resumes)
}

func TestParseUpload_Errors(t *testing.T) {
	upload := func(t *testing.T, ts *testServer, filename, contentType string, data []byte) *httptest.ResponseRecorder {
		t.Helper()
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
		h["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/resumes/parse", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+ts.token)
		w := httptest.NewRecorder()
		ts.Handler().ServeHTTP(w, req)
		return w
	}

	t.Run("unsupported type", func(t *testing.T) {
		ts := newTestServer(t)
		w := upload(t, ts, "resume.pdf", "application/pdf", []byte("%PDF-1.4"))
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("empty document", func(t *testing.T) {
		ts := newTestServer(t)
		w := upload(t, ts, "resume.txt", "text/plain", []byte("   \n  "))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("model failure", func(t *testing.T) {
		ts := newTestServer(t)
		ts.parser.err = &parsing.APICallError{Message: "boom"}
		w := upload(t, ts, "resume.txt", "text/plain", []byte("Ada Lovelace"))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(t, http.MethodPost, "/resumes/parse", ts.token, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFileSlug(t *testing.T) {
	assert.Equal(t, "engineering-cv-2024", fileSlug("Engineering CV (2024)"))
	assert.Equal(t, "resume", fileSlug("  ---  "))
	assert.Equal(t, "resume", fileSlug(""))
	assert.Equal(t, "caf", fileSlug("Café"))
}

var _ export.Exporter = (*fakeExporter)(nil)
