package controllers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/person-directory/modules/frontend"
	"github.com/iota-uz/person-directory/modules/frontend/services"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/server"
)

// fakePersonService mimics the person service over HTTP.
type fakePersonService struct {
	mu       sync.Mutex
	down     bool
	received []string
}

func (f *fakePersonService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/persons":
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"last_name":"Doe","phone_number":"555-0100","location":"Berlin"}]`)
	case r.Method == http.MethodPost && r.URL.Path == "/persons":
		body, _ := io.ReadAll(r.Body)
		f.received = append(f.received, string(body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":2,"last_name":"Roe","phone_number":"555-0101","location":""}`)
	case r.URL.Path == "/health/ready":
		_, _ = io.WriteString(w, "OK")
	default:
		http.NotFound(w, r)
	}
}

func (f *fakePersonService) bodies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

func (f *fakePersonService) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func newGateway(t *testing.T, upstreamURL string, policy services.FailurePolicy) http.Handler {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	app := application.New(&application.ApplicationOptions{Logger: logger})
	require.NoError(t, application.Load(app, frontend.NewModule(frontend.ModuleOptions{
		PersonURL: upstreamURL,
		Timeout:   time.Second,
		Policy:    policy,
	})))
	return server.NewHTTPServer(app, nil, nil).Router()
}

func send(h http.Handler, method, path, body, contentType string) (*httptest.ResponseRecorder, *goquery.Document) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	return rec, doc
}

func TestGateway_ListPersons(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(&fakePersonService{})
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyDegrade)

	rec, doc := send(h, http.MethodGet, "/persons", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "Person", doc.Find("title").Text())

	rows := doc.Find(`table[data-testid="persons"] tbody tr`)
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "Doe", rows.Find("td").Eq(1).Text())
}

func TestGateway_ListDegradesWhenUpstreamDown(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(&fakePersonService{down: true})
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyDegrade)

	rec, doc := send(h, http.MethodGet, "/persons", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, doc.Find("tbody tr").Length())
	assert.Equal(t, services.UnavailableNotice, doc.Find(`[role="alert"]`).Text())
}

func TestGateway_ListDegradesWhenUpstreamUnreachable(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.NotFoundHandler())
	addr := upstream.URL
	upstream.Close()
	h := newGateway(t, addr, services.PolicyDegrade)

	rec, doc := send(h, http.MethodGet, "/persons", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, doc.Find(`[data-testid="persons-empty"]`).Length())
}

func TestGateway_StrictPolicy(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(&fakePersonService{down: true})
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyStrict)

	rec, doc := send(h, http.MethodGet, "/persons", "", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, services.UnavailableNotice, doc.Find(`[data-testid="error"]`).Text())

	rec, _ = send(h, http.MethodPost, "/persons", `{"last_name":"Roe","phone_number":"1"}`, "application/json")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGateway_CreateJSON(t *testing.T) {
	t.Parallel()

	fake := &fakePersonService{}
	upstream := httptest.NewServer(fake)
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyDegrade)

	rec, doc := send(h, http.MethodPost, "/persons", `{"last_name":"Roe","phone_number":"555-0101"}`, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := doc.Find(`section[data-testid="person"]`).Attr("data-person-id")
	assert.Equal(t, "2", id)

	received := fake.bodies()
	require.Len(t, received, 1)
	assert.JSONEq(t, `{"last_name":"Roe","phone_number":"555-0101","location":""}`, received[0])
}

func TestGateway_CreateForm(t *testing.T) {
	t.Parallel()

	fake := &fakePersonService{}
	upstream := httptest.NewServer(fake)
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyDegrade)

	form := url.Values{"last_name": {"Roe"}, "phone_number": {"555-0101"}, "location": {"Oslo"}}
	rec, _ := send(h, http.MethodPost, "/persons", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusCreated, rec.Code)

	received := fake.bodies()
	require.Len(t, received, 1)
	assert.JSONEq(t, `{"last_name":"Roe","phone_number":"555-0101","location":"Oslo"}`, received[0])
}

func TestGateway_CreateRejectsBadInput(t *testing.T) {
	t.Parallel()

	fake := &fakePersonService{}
	upstream := httptest.NewServer(fake)
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyDegrade)

	rec, doc := send(h, http.MethodPost, "/persons", `{"last_name":"Roe"}`, "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "phone_number is a required field", doc.Find(`[data-error-for="phone_number"]`).Text())

	rec, _ = send(h, http.MethodPost, "/persons", `{"last_name":`, "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = send(h, http.MethodPost, "/persons", `last_name,Roe`, "text/csv")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	assert.Empty(t, fake.bodies())
}

func TestGateway_CreateDegradesWhenUpstreamDown(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(&fakePersonService{down: true})
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyDegrade)

	rec, doc := send(h, http.MethodPost, "/persons", `{"last_name":"Roe","phone_number":"1"}`, "application/json")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, services.UnavailableNotice, doc.Find(`[role="alert"]`).Text())
	assert.Equal(t, 0, doc.Find(`section[data-testid="person"]`).Length())
}

func TestGateway_NewForm(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(&fakePersonService{})
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyDegrade)

	rec, doc := send(h, http.MethodGet, "/persons/new", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, doc.Find("form input").Length())
}

func TestGateway_Health(t *testing.T) {
	t.Parallel()

	fake := &fakePersonService{}
	upstream := httptest.NewServer(fake)
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyDegrade)

	rec, _ := send(h, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	fake.setDown(true)
	rec, _ = send(h, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Service Unavailable", rec.Body.String())

	rec, _ = send(h, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateway_ServesHashedStylesheet(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(&fakePersonService{})
	t.Cleanup(upstream.Close)
	h := newGateway(t, upstream.URL, services.PolicyDegrade)

	_, doc := send(h, http.MethodGet, "/persons/new", "", "")
	href, ok := doc.Find(`link[rel="stylesheet"]`).Attr("href")
	require.True(t, ok)
	assert.NotEqual(t, "/assets/css/main.css", href)

	rec, _ := send(h, http.MethodGet, href, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".border-red-500")
}
