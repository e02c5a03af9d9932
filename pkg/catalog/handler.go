package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-surveyform/pkg/model"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a net/http handler from a pre-constructed Options
// value. Defaults are re-applied so a zero Options is usable.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	prefix := routePrefix(opts.RoutePath)

	var cache *lru.Cache[int, []byte]
	if opts.CacheSize > 0 {
		cache, _ = lru.New[int, []byte](opts.CacheSize)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		questionID, ok := questionIDFromPath(r.URL.Path, prefix)
		if !ok {
			http.NotFound(w, r)
			return
		}

		payload, ok := cachedPayload(cache, questionID)
		if !ok {
			answers, err := opts.Store.Answers(r.Context(), questionID)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			payload, err = encodeAnswers(answers)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if cache != nil {
				cache.Add(questionID, payload)
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(payload)
	})
}

func cachedPayload(cache *lru.Cache[int, []byte], questionID int) ([]byte, bool) {
	if cache == nil {
		return nil, false
	}
	return cache.Get(questionID)
}

func encodeAnswers(answers []model.Answer) ([]byte, error) {
	if answers == nil {
		answers = []model.Answer{}
	}
	return json.Marshal(answers)
}

// questionIDFromPath accepts "<prefix><id>/answers/" with or without the
// trailing slash.
func questionIDFromPath(path, prefix string) (int, bool) {
	if !strings.HasPrefix(path, prefix) {
		return 0, false
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, prefix), "/"), "/")
	if len(parts) != 2 || parts[1] != "answers" {
		return 0, false
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
