// Package redact hides credentials in URLs and free text before they are
// logged or returned in error messages.
package redact

import (
	"net/url"
	"regexp"
	"strings"
)

// Placeholder replaces every redacted value.
const Placeholder = "REDACTED"

// Redactor removes credentials from render targets and DevTools endpoints.
type Redactor struct {
	placeholder string
	params      []string
	patterns    []*regexp.Regexp
}

// Option configures the redactor.
type Option func(*Redactor)

// WithPlaceholder sets a custom placeholder string.
func WithPlaceholder(placeholder string) Option {
	return func(r *Redactor) {
		r.placeholder = placeholder
	}
}

// WithParams adds query parameter names whose values are always hidden.
// Matching is case-insensitive and by substring.
func WithParams(names ...string) Option {
	return func(r *Redactor) {
		for _, n := range names {
			r.params = append(r.params, strings.ToLower(n))
		}
	}
}

// WithPatterns adds regex patterns for free-text redaction.
func WithPatterns(patterns ...*regexp.Regexp) Option {
	return func(r *Redactor) {
		r.patterns = append(r.patterns, patterns...)
	}
}

// New creates a Redactor with the default parameter names and patterns.
func New(opts ...Option) *Redactor {
	r := &Redactor{
		placeholder: Placeholder,
		params: []string{
			"token", "secret", "password", "passwd", "key",
			"auth", "signature", "sig", "credential", "session",
		},
		patterns: defaultPatterns(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func defaultPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		// Bearer tokens
		regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_.\-]{8,}`),
		// JWT tokens
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`),
		// GitHub tokens
		regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36}`),
	}
}

// URL hides the userinfo password and the values of sensitive query
// parameters. Input that does not parse as a URL goes through String.
func (r *Redactor) URL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return r.String(raw)
	}

	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), r.placeholder)
		}
	}

	if u.RawQuery != "" {
		q := u.Query()
		changed := false
		for name := range q {
			if r.sensitiveParam(name) {
				q[name] = []string{r.placeholder}
				changed = true
			}
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}

	return r.String(u.String())
}

// String replaces every pattern match with the placeholder.
func (r *Redactor) String(input string) string {
	for _, pattern := range r.patterns {
		input = pattern.ReplaceAllString(input, r.placeholder)
	}
	return input
}

func (r *Redactor) sensitiveParam(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range r.params {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Default is the redactor used by the package-level helpers.
var Default = New()

// URL redacts raw with the default redactor.
func URL(raw string) string {
	return Default.URL(raw)
}

// String redacts input with the default redactor.
func String(input string) string {
	return Default.String(input)
}
