// Package model defines the survey, question, answer and dependency types
// shared by the renderers, the live form runtime and the answer catalog, plus
// helpers to load survey definitions from JSON or YAML and lint their
// dependency configuration.
package model
