// Package htmlsanitize cleans user-supplied rich text (assignment
// instructions) before it is stored or sent to a collaborator.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
		p.AllowAttrs("class").OnElements("table", "tr", "td", "th")
		p.AllowElements("u", "s", "mark")
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers and unsafe URLs, keeping the
// formatting a teacher would put in instructions.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// Instructions trims and sanitizes free-text assignment instructions.
func Instructions(s string) string {
	return strings.TrimSpace(Sanitize(strings.TrimSpace(s)))
}

// IsPlainText reports whether s contains no HTML tags.
func IsPlainText(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '<' || i+1 >= len(s) {
			continue
		}
		c := s[i+1]
		if c == '/' || c == '!' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
