// Package behaviors attaches the interactive survey behaviours to a live
// dom.Document:
//
//   - Attach keeps every question block's visibility in sync with the answers
//     on the field it depends on and blocks submission while a required,
//     visible question is unanswered.
//   - AttachHelpers toggles helper text on focus and blur.
//   - AttachRefresher reloads the admin required-answers select when the
//     depends-on select changes, discarding stale responses.
//
// The same behaviours ship as a browser script under pkg/runtime/assets for
// pages rendered by the vanilla renderer.
package behaviors
