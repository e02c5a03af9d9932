// Package catalog serves the answer options of survey questions as JSON and
// provides a client for the same endpoint.
//
// The handler responds to GET and HEAD requests on
// /surveys/questions/{questionId}/answers/ with an array of {id, text}
// objects in catalog order. Unknown questions yield an empty array. Encoded
// payloads are memoised in a small LRU cache.
package catalog
