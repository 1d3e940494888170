package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wI2L/jsondiff"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/services"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/middleware"
)

type memoryRepo struct {
	mu      sync.Mutex
	persons []person.Person
	err     error
}

func (r *memoryRepo) Create(ctx context.Context, p person.Person) (person.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return person.Person{}, r.err
	}
	saved := person.Hydrate(int64(len(r.persons)+1), p.LastName(), p.PhoneNumber(), p.Location())
	r.persons = append(r.persons, saved)
	return saved, nil
}

func (r *memoryRepo) List(ctx context.Context) ([]person.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]person.Person(nil), r.persons...), nil
}

func (r *memoryRepo) Ping(ctx context.Context) error { return r.err }

func newRouter(t *testing.T, repo person.Repository) (*mux.Router, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	app := application.New(&application.ApplicationOptions{Logger: logger})
	app.RegisterServices(services.NewPersonService(repo, app.EventPublisher()))

	r := mux.NewRouter()
	r.Use(middleware.WithLogger(logger, middleware.DefaultLoggerOptions()))
	NewPersonAPIController(app).Register(r)
	return r, hook
}

func do(r http.Handler, method, body, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/persons", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func assertJSONEqual(t *testing.T, want, got string) {
	t.Helper()
	patch, err := jsondiff.CompareJSON([]byte(want), []byte(got))
	require.NoError(t, err)
	assert.Empty(t, patch, "unexpected JSON difference: %s", patch.String())
}

func TestPersonAPI_CreateThenList(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, &memoryRepo{})

	rec := do(r, http.MethodPost, `{"last_name":"Doe","phone_number":"555-0100","location":"Berlin"}`, "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assertJSONEqual(t, `{"id":1,"last_name":"Doe","phone_number":"555-0100","location":"Berlin"}`, rec.Body.String())

	rec = do(r, http.MethodPost, `{"last_name":"Roe","phone_number":"555-0101"}`, "application/json; charset=utf-8")
	require.Equal(t, http.StatusCreated, rec.Code)
	assertJSONEqual(t, `{"id":2,"last_name":"Roe","phone_number":"555-0101","location":""}`, rec.Body.String())

	rec = do(r, http.MethodGet, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assertJSONEqual(t, `[
		{"id":1,"last_name":"Doe","phone_number":"555-0100","location":"Berlin"},
		{"id":2,"last_name":"Roe","phone_number":"555-0101","location":""}
	]`, rec.Body.String())
}

func TestPersonAPI_SameInputTwiceGetsDistinctIDs(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, &memoryRepo{})
	payload := `{"last_name":"Doe","phone_number":"555-0100","location":"Berlin"}`

	ids := map[float64]bool{}
	for i := 0; i < 2; i++ {
		rec := do(r, http.MethodPost, payload, "application/json")
		require.Equal(t, http.StatusCreated, rec.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Doe", got["last_name"])
		ids[got["id"].(float64)] = true
	}
	assert.Len(t, ids, 2)

	rec := do(r, http.MethodGet, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestPersonAPI_ListEmptyIsArray(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, &memoryRepo{})
	rec := do(r, http.MethodGet, "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPersonAPI_CreateClientErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
		wantCode    string
	}{
		{name: "malformed", body: `{"last_name":`, contentType: "application/json", wantStatus: http.StatusBadRequest, wantCode: "PERSON_INVALID_JSON"},
		{name: "empty body", body: ``, contentType: "application/json", wantStatus: http.StatusBadRequest, wantCode: "PERSON_INVALID_JSON"},
		{name: "wrong type", body: `{"last_name":5,"phone_number":"1"}`, contentType: "application/json", wantStatus: http.StatusBadRequest, wantCode: "PERSON_INVALID_JSON"},
		{name: "trailing data", body: `{"last_name":"a","phone_number":"1"} {}`, contentType: "application/json", wantStatus: http.StatusBadRequest, wantCode: "PERSON_INVALID_JSON"},
		{name: "trailing bracket", body: `{"last_name":"a","phone_number":"1"}]`, contentType: "application/json", wantStatus: http.StatusBadRequest, wantCode: "PERSON_INVALID_JSON"},
		{name: "trailing brace", body: `{"last_name":"a","phone_number":"1"}}`, contentType: "application/json", wantStatus: http.StatusBadRequest, wantCode: "PERSON_INVALID_JSON"},
		{name: "missing phone", body: `{"last_name":"Doe"}`, contentType: "application/json", wantStatus: http.StatusUnprocessableEntity, wantCode: "PERSON_VALIDATION_FAILED"},
		{name: "not json", body: `last_name=Doe`, contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusUnsupportedMediaType, wantCode: "PERSON_UNSUPPORTED_MEDIA_TYPE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := &memoryRepo{}
			r, _ := newRouter(t, repo)

			rec := do(r, http.MethodPost, tc.body, tc.contentType)
			require.Equal(t, tc.wantStatus, rec.Code)

			var envelope map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, tc.wantCode, envelope["code"])
			assert.Empty(t, repo.persons)
		})
	}
}

func TestPersonAPI_ValidationMessageNamesField(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, &memoryRepo{})
	rec := do(r, http.MethodPost, `{"last_name":"Doe"}`, "application/json")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var envelope struct {
		Message string            `json:"message"`
		Meta    map[string]string `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "phone_number is a required field", envelope.Message)
	assert.Equal(t, "phone_number is a required field", envelope.Meta["phone_number"])
	assert.NotEmpty(t, envelope.Meta["request_id"])
}

func TestPersonAPI_StorageFailureIsOpaque(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{err: errors.New(`pq: relation "person" does not exist`)}
	r, hook := newRouter(t, repo)

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		rec := do(r, method, `{"last_name":"Doe","phone_number":"555"}`, "application/json")
		require.Equal(t, http.StatusInternalServerError, rec.Code, method)
		assert.Equal(t, "Internal Server Error", rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "relation")
	}

	var logged bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "person request failed" {
			logged = true
			assert.Contains(t, entry.Data[logrus.ErrorKey].(error).Error(), `relation "person" does not exist`)
		}
	}
	assert.True(t, logged)
}

func TestPersonAPI_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t, &memoryRepo{})
	rec := do(r, http.MethodDelete, "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
