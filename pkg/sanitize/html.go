// Package sanitize cleans user-influenced HTML before it leaves the service.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// HTML strips scripts, event handlers and unsafe URLs while keeping basic formatting
func HTML(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
