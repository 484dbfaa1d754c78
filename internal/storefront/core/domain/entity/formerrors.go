package entity

import (
	"sort"
	"strings"
)

// FormErrors maps a form field name to a human-readable message. An empty
// set means the form is valid. The set is recomputed as a whole on every
// relevant mutation, never patched incrementally.
type FormErrors map[string]string

// Valid reports whether the set is empty.
func (e FormErrors) Valid() bool {
	return len(e) == 0
}

// Message joins all messages into a single display string, ordered by field
// name so the output is stable.
func (e FormErrors) Message() string {
	if len(e) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = e[f]
	}
	return strings.Join(msgs, "; ")
}

// Clone returns an independent copy so emitted payloads cannot be mutated
// by subscribers.
func (e FormErrors) Clone() FormErrors {
	out := make(FormErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
