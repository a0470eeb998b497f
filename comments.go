package blockweave

import (
	"regexp"
	"strings"
)

var (
	commentRe    = regexp.MustCompile(`(?s)<!--.*?-->`)
	entityDelims = strings.NewReplacer("&lt;!--", "<!--", "--&gt;", "-->")
)

// StripComments removes HTML comments from text. Entity-encoded comment
// delimiters are decoded first so a comment that went through an encoder
// round is stripped the same as a raw one. The operation is idempotent.
func StripComments(text string) string {
	return commentRe.ReplaceAllString(entityDelims.Replace(text), "")
}
