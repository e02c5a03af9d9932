// Package validation checks posted survey answers on the server with the same
// visibility and required rules the browser guard applies.
package validation
