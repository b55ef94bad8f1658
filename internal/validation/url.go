// Package validation provides custom validation rules for the application.
package validation

import "net/url"

// isAbsoluteURL reports whether s is an absolute http(s) URL with a host.
// Tenant base URLs must be absolute so downstream paths can be joined safely.
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
