// Package classifier maps free text to reaction emojis and extracts
// profile links from introductions and review requests.
//
// Patterns are compiled with regexp2 so that \b and \w treat accented
// letters as word characters ("javě", "mičudová"), which the standard
// regexp package does not.
package classifier

import (
	"github.com/dlclark/regexp2"
)

// Rule adds Tags to the result whenever Pattern matches the text.
type Rule struct {
	Pattern *regexp2.Regexp
	Tags    []string
}

// NewRule compiles expr into a rule. It panics on an invalid expression,
// rule tables are static.
func NewRule(expr string, ignoreCase bool, tags ...string) Rule {
	opts := regexp2.None
	if ignoreCase {
		opts = regexp2.IgnoreCase
	}
	return Rule{Pattern: regexp2.MustCompile(expr, opts), Tags: tags}
}

// Matches reports whether the rule fires on text. A regexp2 error can
// only be a match timeout and counts as no match.
func (r Rule) Matches(text string) bool {
	ok, err := r.Pattern.MatchString(text)
	return err == nil && ok
}

// Baseline reactions, always applied to an introduction.
var Baseline = []string{"👋", "🐣", "👍"}

const (
	emojiAngular    = "<:angular:844527194730266694>"
	emojiAPI        = "<:api:900833604303732766>"
	emojiBootstrap  = "<:bootstrap:900834695422545940>"
	emojiCPP        = "<:cpp:842666129071931433>"
	emojiCSharp     = "<:csharp:842666113230045224>"
	emojiCSS        = "<:css:842343369618751519>"
	emojiDatabase   = "<:database:900833211809136641>"
	emojiDjango     = "<:django:844534232297504779>"
	emojiDocker     = "<:docker:842465373911777290>"
	emojiExcel      = "<:excel:960457644504674314>"
	emojiFlask      = "<:flask:1166303630001975367>"
	emojiHTML       = "<:html:842343387964375050>"
	emojiJava       = "<:java:1036333651740327966>"
	emojiJavaScript = "<:javascript:842329110293381142>"
	emojiKotlin     = "<:kotlin:1001234560056578149>"
	emojiKubernetes = "<:kubernetes:976200847014899742>"
	emojiMongoDB    = "<:mongodb:976200776118583348>"
	emojiMySQL      = "<:mysql:1036337592582541314>"
	emojiNextJS     = "<:nextjs:963799617886121994>"
	emojiPandas     = "<:pandas:844567908688461854>"
	emojiPHP        = "<:php:842331754731274240>"
	emojiPostgreSQL = "<:postgresql:900831229971169350>"
	emojiPowerBI    = "<:powerbi:960457607745794119>"
	emojiPython     = "<:python:842331892091322389>"
	emojiReact      = "<:react:842332165822742539>"
	emojiSwift      = "<:swift:900831808814473266>"
	emojiTailwind   = "<:tailwind:900834412248309770>"
	emojiTux        = "<:tux:842343455845515264>"
	emojiTypeScript = "<:typescript:842332083605995541>"
	emojiVue        = "<:vue:842332056138416168>"
)

// DefaultRules is the technology table used for introductions. Short
// acronyms are case-sensitive so that e.g. "ts" or "api" in ordinary
// prose do not fire.
var DefaultRules = []Rule{
	NewRule(`\bpython\w*\b`, true, emojiPython),
	NewRule(`\bsql\b`, true, emojiDatabase),
	NewRule(`\bphp\b`, true, emojiPHP),
	NewRule(`\b(nette|laravel|symfony)\w*\b`, true, emojiPHP),
	NewRule(`\bmysql\b`, true, emojiMySQL),
	NewRule(`\bmongo\w*\b`, true, emojiMongoDB),
	NewRule(`\bpostgre\w+\b`, true, emojiPostgreSQL),
	NewRule(`\bkubernet\w*\b`, true, emojiKubernetes),
	NewRule(`\bdocker\w*\b`, true, emojiDocker),
	NewRule(`\blinux\w*\b`, true, emojiTux),
	NewRule(`\bswift\w*\b`, true, emojiSwift),
	NewRule(`\bdjang\w+\b`, true, emojiDjango),
	NewRule(`\bflask\w*\b`, true, emojiFlask),
	NewRule(`\bpandas\b`, true, emojiPandas),
	NewRule(`\bexcel\w*\b`, true, emojiExcel),
	NewRule(`\bpower ?bi\b`, true, emojiPowerBI),
	NewRule(`\bdatab[aá]ze\b`, true, emojiDatabase),
	NewRule(`\bjavascript\w*\b`, true, emojiJavaScript),
	NewRule(`\bJS\b`, false, emojiJavaScript),
	NewRule(`\btypescript\w*\b`, true, emojiTypeScript),
	NewRule(`\bTS\b`, false, emojiTypeScript),
	NewRule(`\bHTML\b`, false, emojiHTML),
	NewRule(`\bCSS\b`, false, emojiCSS),
	NewRule(`\bfront-?end\w*\b`, true, emojiHTML, emojiCSS, emojiJavaScript),
	NewRule(`\bbootstrap\w*\b`, true, emojiBootstrap, emojiCSS),
	NewRule(`\btailwind\w*\b`, true, emojiTailwind, emojiCSS),
	NewRule(`\bC#(?!\w)`, false, emojiCSharp),
	NewRule(`\.NET\b`, true, emojiCSharp),
	NewRule(`\b(java|javy|javě|javu|javou)\b`, true, emojiJava),
	NewRule(`\bkotlin\w*\b`, true, emojiKotlin),
	NewRule(`\bC\+\+(?!\w)`, false, emojiCPP),
	NewRule(`\breact\w*\b`, true, emojiReact),
	NewRule(`\bvue\b`, true, emojiVue),
	NewRule(`\bangular\w*\b`, true, emojiAngular),
	NewRule(`\bnext\.?js\b`, true, emojiNextJS),
	NewRule(`\bAPI\b`, false, emojiAPI),
}

// Classify returns the baseline reactions followed by the reactions of
// every matching rule in DefaultRules.
func Classify(text string) []string {
	return ClassifyWith(DefaultRules, text)
}

// ClassifyWith evaluates every rule against text. The result starts with
// Baseline, then the tags of matching rules in table order; a tag is
// kept at its first occurrence only.
func ClassifyWith(rules []Rule, text string) []string {
	tags := make([]string, 0, len(Baseline)+4)
	seen := make(map[string]struct{}, len(Baseline)+4)
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, tag := range Baseline {
		add(tag)
	}
	for _, rule := range rules {
		if !rule.Matches(text) {
			continue
		}
		for _, tag := range rule.Tags {
			add(tag)
		}
	}
	return tags
}
