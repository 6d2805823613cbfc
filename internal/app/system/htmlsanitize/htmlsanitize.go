// Package htmlsanitize cleans event descriptions before they are stored.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// descriptionPolicy allows paragraph-level formatting, lists and http(s)
// links. Images, tables, forms, iframes and all scripting are stripped.
var descriptionPolicy = sync.OnceValue(func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "b", "strong", "i", "em", "u", "s", "mark",
		"ul", "ol", "li", "blockquote", "h3", "h4")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
})

// Description trims s and, if it contains markup, removes anything outside
// the description policy. Text without tags is stored as typed.
func Description(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return strings.TrimSpace(descriptionPolicy().Sanitize(s))
}
