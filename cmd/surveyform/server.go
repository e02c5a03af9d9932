package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveyform"
	"github.com/goliatone/go-surveyform/pkg/catalog"
	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
	"github.com/goliatone/go-surveyform/pkg/validation"
	"github.com/goliatone/go-surveyform/pkg/visibility"
)

type serverConfig struct {
	BasePath      string
	CacheSize     int
	RequireHidden bool
	Theme         *theme.RendererConfig
	Now           func() time.Time
}

type server struct {
	cfg     serverConfig
	prefix  string
	html    *vanilla.Renderer
	surveys map[int]model.Survey
	ordered []model.Survey
}

// newServer mounts the survey pages, the admin editor, the answers endpoint,
// its OpenAPI document and the browser runtime under cfg.BasePath.
func newServer(cfg serverConfig, surveys []model.Survey) (http.Handler, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &server{
		cfg:     cfg,
		prefix:  strings.TrimRight(strings.TrimSpace(cfg.BasePath), "/"),
		surveys: make(map[int]model.Survey, len(surveys)),
	}
	for _, survey := range surveys {
		if _, exists := s.surveys[survey.ID]; exists {
			return nil, fmt.Errorf("duplicate survey id %d", survey.ID)
		}
		s.surveys[survey.ID] = survey
		s.ordered = append(s.ordered, survey)
	}
	sort.Slice(s.ordered, func(i, j int) bool { return s.ordered[i].ID < s.ordered[j].ID })

	html, err := vanilla.New(
		vanilla.WithRuntimeScript(s.prefix+"/runtime/"+surveyform.RuntimeScript),
		vanilla.WithAnswersPath(s.prefix+"/surveys/questions/"),
		vanilla.WithClock(cfg.Now),
		vanilla.WithRequireHidden(cfg.RequireHidden),
	)
	if err != nil {
		return nil, err
	}
	s.html = html

	mux := http.NewServeMux()
	if _, err := catalog.RegisterRoutes(mux, s.prefix,
		catalog.WithStore(catalog.NewMemory(surveys...)),
		catalog.WithCacheSize(cfg.CacheSize),
	); err != nil {
		return nil, err
	}
	mux.Handle(s.prefix+"/surveys/", http.HandlerFunc(s.handleSurveys))
	mux.Handle(s.prefix+"/admin/questions/", http.HandlerFunc(s.handleEditor))
	mux.Handle(s.prefix+"/openapi.json", http.HandlerFunc(s.handleOpenAPI))
	mux.Handle(s.prefix+"/runtime/", http.StripPrefix(s.prefix+"/runtime/", http.FileServerFS(surveyform.RuntimeAssetsFS())))
	return mux, nil
}

func (s *server) handleSurveys(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, s.prefix+"/surveys/"), "/")
	if rest == "" {
		s.renderList(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	id, err := strconv.Atoi(parts[0])
	if err != nil || len(parts) > 2 || (len(parts) == 2 && parts[1] != "submit") {
		http.NotFound(w, r)
		return
	}
	survey, ok := s.surveys[id]
	if !ok {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 2 {
		s.submit(w, r, survey)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.renderSurvey(w, r, survey, render.RenderOptions{}, http.StatusOK)
}

func (s *server) renderList(w http.ResponseWriter, r *http.Request) {
	out, err := s.html.RenderList(r.Context(), s.ordered, s.prefix+"/surveys/")
	if err != nil {
		s.fail(w, err)
		return
	}
	writeHTML(w, http.StatusOK, out)
}

func (s *server) renderSurvey(w http.ResponseWriter, r *http.Request, survey model.Survey, options render.RenderOptions, status int) {
	options.Action = s.prefix + "/surveys/" + strconv.Itoa(survey.ID) + "/submit/"
	options.Method = http.MethodPost
	options.HiddenFields = render.MergeHiddenFields(options.HiddenFields, render.SurveyID(survey.ID))
	options.Theme = s.cfg.Theme

	out, err := s.html.Render(r.Context(), survey, options)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeHTML(w, status, out)
}

// submit validates posted answers. Invalid submissions are shown again with
// their errors; accepted answers are echoed back as JSON.
func (s *server) submit(w http.ResponseWriter, r *http.Request, survey model.Survey) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !survey.Open(s.cfg.Now()) {
		http.Error(w, "survey is closed", http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	result, err := validation.ValidateSubmission(r.Context(), survey, validation.FromForm(r.PostForm),
		validation.WithRequireHidden(s.cfg.RequireHidden))
	if err != nil {
		s.fail(w, err)
		return
	}
	if !result.Valid {
		mapping := render.MapErrors(survey, result.Errors())
		s.renderSurvey(w, r, survey, render.RenderOptions{
			Values:     visibility.Values(r.PostForm),
			Errors:     mapping.Fields,
			FormErrors: mapping.Form,
		}, http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"survey_id": survey.ID,
		"answers":   result.Answers,
	}); err != nil {
		log.Printf("surveyform: encode submission: %v", err)
	}
}

func (s *server) handleEditor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, s.prefix+"/admin/questions/"), "/")
	id, err := strconv.Atoi(rest)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	for _, survey := range s.ordered {
		if _, ok := survey.Question(id); !ok {
			continue
		}
		out, err := s.html.RenderEditor(r.Context(), survey, id, render.RenderOptions{
			Action: r.URL.Path,
			Theme:  s.cfg.Theme,
		})
		if err != nil {
			s.fail(w, err)
			return
		}
		writeHTML(w, http.StatusOK, out)
		return
	}
	http.NotFound(w, r)
}

func (s *server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(catalog.OpenAPI(s.prefix + "/"))
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrUnknownQuestion) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	log.Printf("surveyform: %v", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
