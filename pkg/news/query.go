package news

import (
	"regexp"
	"strings"
)

var (
	groupPattern  = regexp.MustCompile(`\((.*)\)`)
	basePattern   = regexp.MustCompile(`(?i)^(.*?)\s+AND\s+\(`)
	orSplit       = regexp.MustCompile(`(?i)\s+OR\s+`)
	boolOpPattern = regexp.MustCompile(`(?i)\bAND\b|\bOR\b`)
	parenPattern  = regexp.MustCompile(`[()]`)
)

// ParseCategoryQuery splits `<base> AND (kw1 OR "kw two")` into its base and
// unquoted keywords. Plain queries yield no keywords.
func ParseCategoryQuery(q string) (base string, keywords []string) {
	q = strings.TrimSpace(q)
	if m := basePattern.FindStringSubmatch(q); m != nil {
		base = strings.Trim(strings.TrimSpace(m[1]), `"`)
	}
	m := groupPattern.FindStringSubmatch(q)
	if m == nil {
		return base, nil
	}
	for _, part := range orSplit.Split(m[1], -1) {
		part = strings.TrimSpace(strings.Trim(strings.TrimSpace(part), `"`))
		if part != "" {
			keywords = append(keywords, part)
		}
	}
	return base, keywords
}

// StripBoolean removes AND/OR operators and parentheses, leaving quoted terms intact.
func StripBoolean(q string) string {
	q = boolOpPattern.ReplaceAllString(q, " ")
	q = parenPattern.ReplaceAllString(q, " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(q, " "))
}

// MatchesAny applies MatchesQuery to each keyword of a category query, or to
// the whole query when it has no keyword group.
func MatchesAny(haystack, q string) bool {
	_, keywords := ParseCategoryQuery(q)
	if len(keywords) == 0 {
		return MatchesQuery(haystack, q)
	}
	for _, kw := range keywords {
		if MatchesQuery(haystack, kw) {
			return true
		}
	}
	return false
}
