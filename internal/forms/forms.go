// Package forms holds the field rules of the login, registration, contact
// and admin forms. A form that fails validation is never sent.
package forms

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps a form field to its message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (f FieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// err returns nil for an empty set so callers can use the usual err != nil.
func (f FieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

func ValidEmail(s string) bool { return emailRe.MatchString(s) }

func minLen(s string, n int) bool { return utf8.RuneCountInString(s) >= n }
