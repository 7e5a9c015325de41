package matrix

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrBadPattern is returned for assignee patterns the matcher cannot use.
var ErrBadPattern = errors.New("invalid assignee pattern")

// Glob compiles an assignee filter pattern into a matcher. `*` matches zero
// or more characters and `?` exactly one; everything else is literal. The
// match is case-insensitive, Unicode-aware, and anchored to the whole
// identifier: "*Edwards" matches "Jane Edwards" and "edwards" but not
// "Edwardsson".
func Glob(pattern string) (func(string) bool, error) {
	if !utf8.ValidString(pattern) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrBadPattern)
	}
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPattern, err)
	}
	return re.MatchString, nil
}

// FilterPeople returns the people matching the pattern, preserving order.
// An empty pattern keeps everyone.
func FilterPeople(people []string, pattern string) ([]string, error) {
	if pattern == "" {
		return people, nil
	}
	match, err := Glob(pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(people))
	for _, p := range people {
		if match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
