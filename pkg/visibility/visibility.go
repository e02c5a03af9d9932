package visibility

import (
	"sort"

	"github.com/goliatone/go-surveyform/pkg/model"
)

// State is the outcome of a visibility evaluation.
type State int

const (
	Visible State = iota
	Hidden
)

func (s State) String() string {
	if s == Hidden {
		return "hidden"
	}
	return "visible"
}

// AnswerSet is a set of normalised answer values observed on a field.
type AnswerSet map[string]struct{}

// NewAnswerSet builds a set from raw values. Values are normalised with
// model.NormalizeAnswer and blanks are dropped.
func NewAnswerSet(values ...string) AnswerSet {
	set := make(AnswerSet, len(values))
	for _, value := range values {
		set.Add(value)
	}
	return set
}

// Add normalises value and inserts it unless it is blank.
func (s AnswerSet) Add(value string) {
	normalized := model.NormalizeAnswer(value)
	if normalized == "" {
		return
	}
	s[normalized] = struct{}{}
}

// Has reports whether the normalised value is present.
func (s AnswerSet) Has(value string) bool {
	_, ok := s[model.NormalizeAnswer(value)]
	return ok
}

// Len returns the number of distinct values.
func (s AnswerSet) Len() int { return len(s) }

// Values returns the members in sorted order.
func (s AnswerSet) Values() []string {
	out := make([]string, 0, len(s))
	for value := range s {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// Source provides the observed answers for a field name. Implementations must
// treat name and name[] as the same group.
type Source interface {
	Observe(field string) AnswerSet
}

// SourceFunc adapts a function into a Source.
type SourceFunc func(field string) AnswerSet

// Observe delegates to the underlying function.
func (fn SourceFunc) Observe(field string) AnswerSet {
	return fn(field)
}

// Values adapts submitted form values (for example url.Values or answers
// collected by a prompt session) into a Source.
type Values map[string][]string

// Observe returns the union of the values stored under field and field[].
func (v Values) Observe(field string) AnswerSet {
	set := make(AnswerSet)
	if len(v) == 0 || field == "" {
		return set
	}
	for _, value := range v[field] {
		set.Add(value)
	}
	for _, value := range v[field+"[]"] {
		set.Add(value)
	}
	return set
}

// Evaluator determines whether a question gated by dep should be shown given
// the answers currently observable through src.
type Evaluator interface {
	Eval(dep *model.Dependency, src Source) State
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(dep *model.Dependency, src Source) State

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(dep *model.Dependency, src Source) State {
	return fn(dep, src)
}

// ExactMatch shows a question only when the observed answers on the source
// field are set-equal to the required answers. Subsets, supersets and
// disjoint sets all hide the question. A nil dependency is always visible.
type ExactMatch struct{}

// Eval implements Evaluator.
func (ExactMatch) Eval(dep *model.Dependency, src Source) State {
	if dep == nil {
		return Visible
	}

	observed := AnswerSet{}
	if src != nil {
		if got := src.Observe(dep.Source); got != nil {
			observed = got
		}
	}

	required := dep.RequiredAnswers()
	if len(required) != observed.Len() {
		return Hidden
	}
	for _, answer := range required {
		if _, ok := observed[answer]; !ok {
			return Hidden
		}
	}
	return Visible
}

// Evaluate applies the exact-match policy.
func Evaluate(dep *model.Dependency, src Source) State {
	return ExactMatch{}.Eval(dep, src)
}
