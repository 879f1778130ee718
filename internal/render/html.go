package render

import (
	"regexp"
	"strings"
)

var (
	listOpenRe  = regexp.MustCompile(`(?i)<ul[^>]*>`)
	listCloseRe = regexp.MustCompile(`(?i)</ul>`)
	itemOpenRe  = regexp.MustCompile(`(?i)<li[^>]*>`)
	itemCloseRe = regexp.MustCompile(`(?i)</li>`)
	mentionRe   = regexp.MustCompile(`(?is)<a[^>]*data-vss-mention[^>]*>(.*?)</a>`)
	imageRe     = regexp.MustCompile(`(?is)<img[^>]*>`)
	anchorRe    = regexp.MustCompile(`(?is)<a\s+href\s*=\s*"([^"]+)"\s*>(.*?)</a>`)
	tagRe       = regexp.MustCompile(`(?s)<[^>]+>`)
)

// StripHTML reduces a work-item comment body to plain console text: lists
// become bullets, mentions keep their display name, images are stripped, line
// breaks survive, and every remaining tag is dropped.
func StripHTML(body string) string {
	if body == "" {
		return ""
	}

	value := body
	value = listOpenRe.ReplaceAllString(value, "")
	value = listCloseRe.ReplaceAllString(value, "\n")
	value = itemOpenRe.ReplaceAllString(value, "- ")
	value = itemCloseRe.ReplaceAllString(value, "\n")

	value = mentionRe.ReplaceAllStringFunc(value, func(m string) string {
		return strings.TrimSpace(mentionRe.FindStringSubmatch(m)[1])
	})
	value = imageRe.ReplaceAllString(value, "[image stripped]")
	value = anchorRe.ReplaceAllString(value, "$2 ($1)")

	for _, br := range []string{"<br>", "<br/>", "<br />"} {
		value = strings.ReplaceAll(value, br, "\n")
	}

	value = tagRe.ReplaceAllString(value, "")
	return strings.TrimSpace(value)
}
