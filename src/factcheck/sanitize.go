package factcheck

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// plainText strips markup from model-supplied text. bluemonday escapes
// entities on the way out, so they are unescaped again for JSON output.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func sanitizeResult(r *Result) {
	r.Summary = plainText(r.Summary)
	r.LogicExplanation = plainText(r.LogicExplanation)
	for i := range r.KeyFacts {
		r.KeyFacts[i] = plainText(r.KeyFacts[i])
	}
	for i := range r.Sources {
		r.Sources[i].Title = plainText(r.Sources[i].Title)
		r.Sources[i].URL = strings.TrimSpace(r.Sources[i].URL)
		r.Sources[i].Domain = strings.TrimSpace(r.Sources[i].Domain)
	}
}
