// Package normalize is the single place where user-supplied strings are
// canonicalised before they are stored, compared or used in a filter.
package normalize

import "strings"

// Email is the form stored in users.email and login_attempts.email.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Role lowercases so token claims and stored roles compare equal. Request
// bodies are validated before this is applied, so "Admin" is still refused.
func Role(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims a display name. Case is kept.
func Name(s string) string { return strings.TrimSpace(s) }

// Text trims an event's free-form fields (title, time, venue).
func Text(s string) string { return strings.TrimSpace(s) }

// QueryParam trims a raw query string value such as ?search= or ?page=.
func QueryParam(s string) string { return strings.TrimSpace(s) }
