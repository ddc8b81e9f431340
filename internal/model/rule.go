package model

import "regexp"

// Rule is one row of the routing catalog. Rows keep their source order;
// classification is first-match-wins.
type Rule struct {
	Category string
	FolderID string
	Pattern  string
	// Matcher is nil when the row carries no usable pattern; such a rule
	// never matches but still occupies its position in the catalog.
	Matcher *regexp.Regexp
}

// Matches reports whether the rule's matcher finds the text anywhere.
func (r Rule) Matches(text string) bool {
	return r.Matcher != nil && r.Matcher.MatchString(text)
}
