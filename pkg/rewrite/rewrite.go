// Package rewrite expands a raw question with boost terms for the legal
// intents it mentions, sharpening lexical retrieval. The transformation is
// pure: same query in, same query out.
package rewrite

import "strings"

// intent pairs trigger substrings with the boost terms appended when any
// trigger occurs in the lower-cased query. Boost lists may overlap across
// intents; duplicates are kept intentionally as extra weight.
type intent struct {
	triggers []string
	boosts   []string
}

var intents = []intent{
	{
		triggers: []string{"govern", "law", "jurisd"},
		boosts:   []string{`"governing law"`, "construed", "enforced", "laws of", "state of"},
	},
	{
		triggers: []string{"terminat", "expire"},
		boosts:   []string{"termination", "notice", `"prior written notice"`, "insolvent", "mutual written agreement"},
	},
	{
		triggers: []string{"payment", "fee", "fees", "charges", "settle", "compensation", "consideration", "remuneration"},
		boosts:   []string{"payment", "pass-through", "monthly", "charge", "settle", "net basis", "invoice", "due date", "late fee"},
	},
	{
		triggers: []string{"parties", "roles"},
		boosts:   []string{"by and among", "between", "affiliate", "service provider", "service recipient"},
	},
}

// Rewrite appends intent boost terms to the query. Queries matching no
// intent are returned unchanged.
func Rewrite(query string) string {
	ql := strings.ToLower(query)

	var boosts []string
	for _, in := range intents {
		for _, t := range in.triggers {
			if strings.Contains(ql, t) {
				boosts = append(boosts, in.boosts...)
				break
			}
		}
	}

	if len(boosts) == 0 {
		return query
	}
	return query + " " + strings.Join(boosts, " ")
}
