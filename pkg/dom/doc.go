// Package dom models the live state of a rendered survey form: question
// blocks, input controls, select elements and the events dispatched when a
// user interacts with them. Documents are built programmatically or parsed
// from the markup produced by the vanilla renderer.
package dom
