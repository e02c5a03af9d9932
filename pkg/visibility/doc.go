// Package visibility decides whether a question is shown based on the answers
// observed on the field it depends on.
//
// Evaluation is a pure function of the dependency and the observed answers:
// nothing is cached between calls, so callers re-run it across the whole form
// whenever an input changes.
package visibility
