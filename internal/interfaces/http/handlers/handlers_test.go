package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/timexnorm/internal/application/annotation"
	"github.com/turtacn/timexnorm/internal/testutil"
	"github.com/turtacn/timexnorm/pkg/errors"
)

func newTestHandler(t *testing.T, maxBody int64) *TimexHandler {
	t.Helper()
	svc, err := annotation.NewService(annotation.DefaultServiceConfig(), nil, nil, nil)
	require.NoError(t, err)
	return NewTimexHandler(svc, testutil.NewMockLogger(), maxBody)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNormalise(t *testing.T) {
	h := newTestHandler(t, 0)

	rec := post(h.Normalise, `{"expression":"yesterday","expressions":["next Friday"],"reference":"20120608"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp NormaliseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "2012-06-07", resp.Results[0].Value)
	assert.Equal(t, "yesterday", resp.Results[0].Rule)
	assert.Equal(t, "2012-06-15", resp.Results[1].Value)
}

func TestNormalise_Errors(t *testing.T) {
	h := newTestHandler(t, 64)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.ErrorCode
	}{
		{"no expression", `{"reference":"20120608"}`, http.StatusBadRequest, errors.ErrCodeEmptyExpression},
		{"bad reference", `{"expression":"today","reference":"2012-06-08"}`, http.StatusBadRequest, errors.ErrCodeInvalidReferenceDate},
		{"bad domain", `{"expression":"today","reference":"20120608","domain":"legal"}`, http.StatusBadRequest, errors.ErrCodeUnsupportedDomain},
		{"unknown field", `{"expr":"today"}`, http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"empty body", ``, http.StatusBadRequest, errors.ErrCodeBadRequest},
		{"too large", `{"expression":"` + strings.Repeat("a", 100) + `"}`, http.StatusBadRequest, errors.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h.Normalise, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, string(tt.code), decodeError(t, rec).Code)
		})
	}
}

func TestAnnotate_Single(t *testing.T) {
	h := newTestHandler(t, 0)

	rec := post(h.Annotate, `{"document":{"id":"d1","dct":"20120608","spans":[
		{"start":0,"end":12,"text":"June 1, 2012"},
		{"start":20,"end":28,"text":"that day"}]}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out annotation.AnnotatedDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "d1", out.DocumentID)
	require.Len(t, out.Annotations, 2)
	assert.Equal(t, "2012-06-01", out.Annotations[1].Result.Value)
	assert.Equal(t, `<TIMEX3 tid="t2" type="DATE" value="2012-06-01">that day</TIMEX3>`, out.Tags[1])
}

func TestAnnotate_Batch(t *testing.T) {
	h := newTestHandler(t, 0)

	rec := post(h.Annotate, `{"documents":[
		{"id":"a","dct":"20120608","spans":[{"start":0,"end":5,"text":"today"}]},
		{"id":"b","dct":"20120608","domain":"clinical","format":"i2b2","spans":[{"start":0,"end":4,"text":"stat"}]}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out AnnotateBatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Documents, 2)
	assert.Equal(t, "b", out.Documents[1].DocumentID)
	assert.Equal(t, `<TIMEX3 id="T1" start="0" end="4" text="stat" type="FREQUENCY" val="R1" />`, out.Documents[1].Tags[0])
}

func TestAnnotate_Errors(t *testing.T) {
	h := newTestHandler(t, 0)

	rec := post(h.Annotate, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(h.Annotate, `{"document":{"dct":"20120608"},"documents":[{"dct":"20120608"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(h.Annotate, `{"documents":[{"id":"x","dct":"nope","spans":[]}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeInvalidReferenceDate), decodeError(t, rec).Code)
}

func TestRules(t *testing.T) {
	h := newTestHandler(t, 0)

	rec := httptest.NewRecorder()
	h.Rules(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules?domain=i2b2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp RulesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "clinical", resp.Domain)
	assert.Contains(t, resp.Rules, "clinical-stat")

	rec = httptest.NewRecorder()
	h.Rules(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rules?domain=legal", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteAppError_MasksServerErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAppError(rec, errors.New(errors.ErrCodeCacheError, "redis: connection pool exhausted"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, string(errors.ErrCodeInternal), resp.Code)
	assert.NotContains(t, rec.Body.String(), "redis")

	rec = httptest.NewRecorder()
	writeAppError(rec, stderrors.New("plain"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type healthRecorder struct {
	mu     sync.Mutex
	status map[string]bool
}

func (r *healthRecorder) SetHealth(component string, up bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status[component] = up
}

func TestHealthHandler(t *testing.T) {
	recorder := &healthRecorder{status: map[string]bool{}}
	h := NewHealthHandler("1.2.3", recorder,
		CheckFunc{Component: "redis", Fn: func(context.Context) error { return nil }},
		CheckFunc{Component: "kafka", Fn: func(context.Context) error { return stderrors.New("no brokers") }},
	)

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.2.3"`)

	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "healthy", resp.Components["redis"].Status)
	assert.Equal(t, "no brokers", resp.Components["kafka"].Error)
	assert.Equal(t, map[string]bool{"redis": true, "kafka": false}, recorder.status)

	rec = httptest.NewRecorder()
	NewHealthHandler("dev", nil).Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

//Personal.AI order the ending
