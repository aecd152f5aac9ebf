package news

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultMinQueryLen = 2
	DefaultMaxQueryLen = 25
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	disallowedPattern = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	spacePattern      = regexp.MustCompile(`\s+`)
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9]+`)
)

func NormalizeText(v string) string {
	return strings.ToLower(v)
}

// SanitizeQuery strips markup and anything but letters, digits, spaces and
// hyphens. Callers must not hit the network when valid is false.
func SanitizeQuery(input string, minLen, maxLen int) (string, bool) {
	q := tagPattern.ReplaceAllString(input, " ")
	q = disallowedPattern.ReplaceAllString(q, " ")
	q = spacePattern.ReplaceAllString(q, " ")
	q = strings.TrimSpace(q)

	n := utf8.RuneCountInString(q)
	return q, n >= minLen && n <= maxLen
}

func SanitizeDefault(input string) (string, bool) {
	return SanitizeQuery(input, DefaultMinQueryLen, DefaultMaxQueryLen)
}

// MatchesQuery is a case-insensitive substring test. A blank query matches everything.
func MatchesQuery(haystack, query string) bool {
	q := strings.TrimSpace(NormalizeText(query))
	if q == "" {
		return true
	}
	return strings.Contains(NormalizeText(haystack), q)
}

// NormalizeKey lowercases and drops every non-alphanumeric character.
func NormalizeKey(v string) string {
	return nonAlnumPattern.ReplaceAllString(strings.ToLower(v), "")
}

// NormalizeTitle lowercases and folds punctuation runs into single spaces.
func NormalizeTitle(v string) string {
	t := nonAlnumPattern.ReplaceAllString(strings.ToLower(v), " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(t, " "))
}

// DayKey is the UTC calendar day of t, or "" for the zero time.
func DayKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// TitleDayKey groups near-identical headlines published on the same day.
func TitleDayKey(title string, published time.Time) string {
	key := NormalizeTitle(title)
	if key == "" {
		return ""
	}
	if day := DayKey(published); day != "" {
		return key + ":" + day
	}
	return key
}

// DomainOf returns the lowercased host of rawURL without a leading "www.".
func DomainOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// MatchesDomain reports whether domain equals, or is a subdomain of, any entry.
func MatchesDomain(domain string, domains []string) bool {
	if domain == "" {
		return false
	}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}
