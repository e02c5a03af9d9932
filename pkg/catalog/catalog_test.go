package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-surveyform/pkg/model"
)

func testSurvey() model.Survey {
	return model.Survey{
		Questions: []model.Question{
			{ID: 7, Text: "Pick", Type: model.QuestionTypeChoice, Answers: []model.Answer{{ID: 1, Text: "A"}, {ID: 2, Text: "B"}}},
			{ID: 8, Text: "Free", Type: model.QuestionTypeText},
		},
	}
}

func serve(t *testing.T, h http.Handler, method, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}

func TestHandler_ReturnsAnswersInOrder(t *testing.T) {
	h := Handler(WithStore(NewMemory(testSurvey())))

	res := serve(t, h, http.MethodGet, "/surveys/questions/7/answers/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.HasPrefix(res.Header.Get("Content-Type"), "application/json"))

	var payload []model.Answer
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, []model.Answer{{ID: 1, Text: "A"}, {ID: 2, Text: "B"}}, payload)
}

func TestHandler_EmptyArrays(t *testing.T) {
	h := Handler(WithStore(NewMemory(testSurvey())))

	for _, target := range []string{"/surveys/questions/8/answers/", "/surveys/questions/99/answers"} {
		res := serve(t, h, http.MethodGet, target)
		require.Equal(t, http.StatusOK, res.StatusCode, target)

		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
		assert.Equal(t, "[]", string(raw), target)
	}
}

func TestHandler_RejectsBadRequests(t *testing.T) {
	h := Handler()

	res := serve(t, h, http.MethodPost, "/surveys/questions/7/answers/")
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	assert.Contains(t, res.Header.Get("Allow"), http.MethodGet)

	for _, target := range []string{"/surveys/questions/abc/answers/", "/surveys/questions/7/", "/other/7/answers/"} {
		res := serve(t, h, http.MethodGet, target)
		assert.Equal(t, http.StatusNotFound, res.StatusCode, target)
	}
}

func TestHandler_HeadHasNoBody(t *testing.T) {
	h := Handler(WithStore(NewMemory(testSurvey())))
	res := serve(t, h, http.MethodHead, "/surveys/questions/7/answers/")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var buf bytes.Buffer
	_, err := buf.ReadFrom(res.Body)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestHandler_Guard(t *testing.T) {
	h := Handler(WithGuard(func(r *http.Request) error {
		if r.Header.Get("X-Staff") == "" {
			return StatusError{Code: http.StatusUnauthorized}
		}
		return nil
	}))
	res := serve(t, h, http.MethodGet, "/surveys/questions/7/answers/")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	h = Handler(WithGuard(func(*http.Request) error { return errors.New("nope") }))
	res = serve(t, h, http.MethodGet, "/surveys/questions/7/answers/")
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

type countingStore struct {
	calls atomic.Int32
	inner Store
}

func (s *countingStore) Answers(ctx context.Context, id int) ([]model.Answer, error) {
	s.calls.Add(1)
	return s.inner.Answers(ctx, id)
}

func TestHandler_CachesPayloads(t *testing.T) {
	store := &countingStore{inner: NewMemory(testSurvey())}

	cached := Handler(WithStore(store))
	for i := 0; i < 3; i++ {
		serve(t, cached, http.MethodGet, "/surveys/questions/7/answers/")
	}
	assert.Equal(t, int32(1), store.calls.Load())

	store.calls.Store(0)
	uncached := Handler(WithStore(store), WithCacheSize(0))
	for i := 0; i < 3; i++ {
		serve(t, uncached, http.MethodGet, "/surveys/questions/7/answers/")
	}
	assert.Equal(t, int32(3), store.calls.Load())
}

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "/admin", WithStore(NewMemory(testSurvey())))
	require.NoError(t, err)
	assert.Equal(t, "/admin/surveys/questions/", pattern)

	res := serve(t, mux, http.MethodGet, AnswersPath("/admin", 7))
	require.Equal(t, http.StatusOK, res.StatusCode)

	_, err = RegisterRoutes(nil, "/")
	assert.Error(t, err)
}

func TestClient_Answers(t *testing.T) {
	mux := http.NewServeMux()
	_, err := RegisterRoutes(mux, "", WithStore(NewMemory(testSurvey())))
	require.NoError(t, err)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	answers, err := client.Answers(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, []model.Answer{{ID: 1, Text: "A"}, {ID: 2, Text: "B"}}, answers)

	answers, err = client.Answers(context.Background(), "8")
	require.NoError(t, err)
	assert.Empty(t, answers)
	assert.NotNil(t, answers)

	_, err = client.Answers(context.Background(), "abc")
	var status HTTPError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusNotFound, status.StatusCode())
}

func TestClient_RejectsMalformedPayloads(t *testing.T) {
	bodies := []string{
		`not json`,
		`{"id": 1, "text": "A"}`,
		`[{"id": "one", "text": "A"}]`,
		`[{"text": "missing id"}]`,
	}
	for _, body := range bodies {
		body := body
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))

		_, err := NewClient(srv.URL).Answers(context.Background(), "1")
		srv.Close()
		assert.ErrorIs(t, err, ErrInvalidPayload, body)
	}
}

func TestOpenAPIDocumentValidates(t *testing.T) {
	doc := OpenAPI("/")
	require.NoError(t, doc.Validate(context.Background()))
	assert.NotNil(t, doc.Paths.Find("/surveys/questions/{questionId}/answers/"))
}
