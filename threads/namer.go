// Package threads names discussion threads created from channel messages.
package threads

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Weekdays holds the localized weekday adjectives, Monday first.
var Weekdays = [7]string{"Pondělní", "Úterní", "Středeční", "Čtvrteční", "Páteční", "Sobotní", "Nedělní"}

// Templates used by the channels the bot creates threads in.
const (
	IntroTemplate = "Ahoj {author}!"

	TrapsTemplate        = "{weekday} past na {author}"
	TrapsBracketTemplate = "Past na {author}: {bracket_content}"

	DiscoveriesTemplate        = "{weekday} objev od {author}"
	DiscoveriesBracketTemplate = "Objev od {author}: {bracket_content}"
)

// The body needs at least two characters, the last one not a closing
// bracket and the one before it not whitespace.
var bracketPattern = regexp2.MustCompile(`^\[(?<body>.*\S[^\]])\]`, regexp2.None)

// Name returns the thread title for a message. When overrideTemplate is
// set and content opens with a bracket group, the group's comma separated
// labels fill {bracket_content}. Otherwise defaultTemplate is rendered
// with the weekday of now.
func Name(content, displayName, defaultTemplate, overrideTemplate string, now time.Time) string {
	if overrideTemplate != "" {
		if label, ok := BracketLabel(content); ok {
			return strings.NewReplacer(
				"{author}", displayName,
				"{bracket_content}", label,
			).Replace(overrideTemplate)
		}
	}
	return strings.NewReplacer(
		"{weekday}", Weekday(now),
		"{author}", displayName,
	).Replace(defaultTemplate)
}

// BracketLabel extracts the normalized label of a leading bracket group:
// pieces split on commas, trimmed and joined with ", ".
func BracketLabel(content string) (string, bool) {
	m, err := bracketPattern.FindStringMatch(content)
	if err != nil || m == nil {
		return "", false
	}
	parts := strings.Split(m.GroupByName("body").String(), ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return strings.Join(parts, ", "), true
}

// Weekday returns the localized weekday adjective for t.
func Weekday(t time.Time) string {
	// time.Weekday counts from Sunday.
	return Weekdays[(int(t.Weekday())+6)%7]
}
