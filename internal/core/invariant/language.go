package invariant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Lexical pattern groups for the ambiguous-language scan. Each group names
// the kind of problem so the failure message can say what was found.
var (
	vagueTerms = regexp.MustCompile(`(?i)\b(fast|quick|quickly|easy|easily|simple|simply|efficient|efficiently|appropriate|appropriately|reasonable|adequate|sufficient|robust|seamless|intuitive|user-friendly|flexible|scalable|performant|good|better|best|optimal|many|some|several|various)\b`)

	implementationDirectives = regexp.MustCompile(`(?i)\b(must use|should use|using|implemented? (?:with|in|using)|via)\b`)

	unresolvedMarkers = regexp.MustCompile(`(?i)(\bTBD\b|\bTODO\b|\bFIXME\b|\bXXX\b|\?\?\?|<[^>]*placeholder[^>]*>)`)

	vagueConditionals = regexp.MustCompile(`(?i)\b(if possible|if needed|if necessary|when necessary|when needed|as needed|as required|where applicable|where appropriate)\b`)
)

type patternGroup struct {
	label   string
	pattern *regexp.Regexp
}

var languageGroups = []patternGroup{
	{"vague term", vagueTerms},
	{"implementation directive", implementationDirectives},
	{"unresolved marker", unresolvedMarkers},
	{"vague conditional", vagueConditionals},
}

// AmbiguousLanguageChecker runs a lexical scan over every atom description
// looking for language that makes a requirement untestable: vague qualifiers,
// implementation directives, unresolved markers, and vague conditionals.
type AmbiguousLanguageChecker struct{}

// ID returns the invariant identifier.
func (c *AmbiguousLanguageChecker) ID() string { return IDAmbiguousLanguage }

// Check fails naming every atom with at least one flagged phrase.
func (c *AmbiguousLanguageChecker) Check(_ context.Context, atoms []Atom, _ CheckContext, cfg Config) Result {
	var affected []string
	var details []string

	for _, a := range atoms {
		var found []string
		for _, g := range languageGroups {
			if m := g.pattern.FindString(a.Description); m != "" {
				found = append(found, fmt.Sprintf("%s %q", g.label, m))
			}
		}
		if len(found) > 0 {
			affected = append(affected, a.ID)
			details = append(details, fmt.Sprintf("%s: %s", a.ID, strings.Join(found, "; ")))
		}
	}

	if len(affected) > 0 {
		return fail(cfg, fmt.Sprintf("%d atom(s) contain ambiguous language: %s", len(affected), strings.Join(details, " | ")), affected)
	}
	return pass(cfg, "no ambiguous language detected")
}

// Suggestions returns remediation hints for ambiguous wording.
func (c *AmbiguousLanguageChecker) Suggestions() []string {
	return []string{
		"Replace vague qualifiers with measurable criteria (e.g. 'within 200ms' instead of 'fast')",
		"State what the system must do, not how to implement it",
		"Resolve every TBD/TODO marker before committing",
	}
}
