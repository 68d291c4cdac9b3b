package answer

import "regexp"

// rule is one legal-intent matcher: trigger substrings checked against the
// lower-cased query, and a pattern run over the joined evidence. Rules are
// evaluated in priority order; the first one to fire wins.
type rule struct {
	name     string
	triggers []string
	pattern  *regexp.Regexp

	// firstLineOnly trims the match to its first line; section-style
	// matches ("Termination ...") drag in the whole section body.
	firstLineOnly bool
}

// inlineLawRE finds a self-contained "laws of ..." sentence inside a single
// hit, used by the governing-law pre-check.
var inlineLawRE = regexp.MustCompile(`(?i)[^\.]*laws?\s+of\s+[^\.]+\.`)

var rules = []rule{
	{
		name:     "governing_law",
		triggers: []string{"govern", "law", "jurisd"},
		pattern: regexp.MustCompile(`(?i)(?:governing\s+law[^.]*\.` +
			`|construed\s+and\s+enforced\s+in\s+accordance\s+with\s+the\s+laws\s+of\s+[^.]+\.` +
			`|laws?\s+and\s+regulations\s+of\s+[^.]+\.)`),
	},
	{
		name:          "termination",
		triggers:      []string{"terminat", "expire"},
		pattern:       regexp.MustCompile(`(?i)(?:(?:^|\n)\s*termination[\s\S]{0,1000}|terminate[^.]{0,800}\.)`),
		firstLineOnly: true,
	},
	{
		name:     "payment",
		triggers: []string{"payment", "fee", "charges", "settle", "compensation"},
		pattern: regexp.MustCompile(`(?i)(?:pass[-\s]?through cost` +
			`|monthly Management Services charge` +
			`|settle all charges.*?on a net basis` +
			`|invoice[^.]{0,300}\.` +
			`|milestone[^.]{0,300}\.` +
			`|net\s*(?:10|15|30|45|60)\s*days[^.]*\.)`),
	},
	{
		name:     "parties",
		triggers: []string{"parties", "roles", "between", "by and among"},
		pattern:  regexp.MustCompile(`(?i)(?:between\s+.*?\s+and\s+.*?\)|by and among\s+.*?\))`),
	},
	{
		name:     "confidential",
		triggers: []string{"confidential"},
		pattern:  regexp.MustCompile(`(?i)(?:confidential|proprietary)[\s\S]{0,800}`),
	},
	{
		name:     "governing_venue",
		triggers: []string{"venue", "governing", "law"},
		pattern:  regexp.MustCompile(`(?i)laws?\s+of\s+the\s+State\s+of\s+[A-Za-z ]+[^.]*?(?:venue|jurisdiction)[^.]*?\.`),
	},
	{
		name:     "liability_cap",
		triggers: []string{"liability", "cap", "limit"},
		pattern: regexp.MustCompile(`(?i)in\s+no\s+event[\s\S]{0,200}?` +
			`(?:aggregate\s+liability|liability\b)[\s\S]{0,400}?` +
			`(?:exceed|greater of)[\s\S]{0,200}?` +
			`(?:fees|amounts)\s+(?:paid|received)[\s\S]{0,200}?` +
			`(?:\b\d{1,2}\s*\(?\d{1,2}?\)?\s*months|\btwelve\s*\(?12\)?\s*months|\byear)\b[\s\S]{0,200}\.`),
	},
}
