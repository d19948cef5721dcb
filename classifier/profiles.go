package classifier

import (
	"mime"
	"net/url"
	"strings"

	"chick-bot/models"
)

var (
	githubRule   = NewRule(`github\.com/(?<username>[\w-]+)`, false)
	linkedinRule = NewRule(`linkedin\.com/in/(?<username>[^\s/]+)`, false)
)

// documentTypes are the content types accepted as a CV.
var documentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.oasis.opendocument.text":                                 {},
}

// FindGitHubURL returns the canonical URL of the first GitHub profile
// mentioned in text.
func FindGitHubURL(text string) (string, bool) {
	username, ok := firstUsername(githubRule, text)
	if !ok {
		return "", false
	}
	return "https://github.com/" + username + "/", true
}

// FindLinkedInURL returns the canonical URL of the first LinkedIn
// profile mentioned in text.
func FindLinkedInURL(text string) (string, bool) {
	username, ok := firstUsername(linkedinRule, text)
	if !ok {
		return "", false
	}
	return "https://www.linkedin.com/in/" + username + "/", true
}

// FindCVURL returns the URL of the first attachment declared as a
// document.
func FindCVURL(attachments []models.Attachment) (string, bool) {
	for _, attachment := range attachments {
		mediaType, _, err := mime.ParseMediaType(attachment.ContentType)
		if err != nil {
			continue
		}
		if _, ok := documentTypes[mediaType]; ok {
			return attachment.URL, true
		}
	}
	return "", false
}

func firstUsername(rule Rule, text string) (string, bool) {
	m, err := rule.Pattern.FindStringMatch(text)
	if err != nil || m == nil {
		return "", false
	}
	username := m.GroupByName("username").String()
	if username == "" {
		return "", false
	}
	return canonicalEscape(username), true
}

// canonicalEscape decodes s and percent-encodes every byte outside the
// unreserved set with uppercase hex, so "les%c3%a1k" and "lesák" yield
// the same string.
func canonicalEscape(s string) string {
	if unescaped, err := url.PathUnescape(s); err == nil {
		s = unescaped
	}
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
