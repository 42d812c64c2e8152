package core

import (
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	MonthLayout    = "2006-01"
	DateTimeLayout = "2006-01-02 03:04 PM"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Slugify lowers `s` and joins its words with dashes: "Mathematics 101" -> "mathematics-101".
func Slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// ContainsFold reports whether substr is within s, ignoring case. An empty substr always matches.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// InMonth reports whether t falls in month, formatted as "2006-01". An empty month matches everything.
func InMonth(t time.Time, month string) bool {
	if month == "" {
		return true
	}
	return t.Format(MonthLayout) == month
}

// MustParseDate parses static dates. It panics on malformed input.
func MustParseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// MustParseDateTime parses static timestamps formatted as "2006-01-02 03:04 PM".
func MustParseDateTime(s string) time.Time {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// MatchSlug reports whether a URL slug designates the subject named `name` with code `code`.
// It accepts the full slug ("mathematics-101"), the code ("math101") or a prefix of either ("math").
func MatchSlug(slug, name, code string) bool {
	slug = CleanString(slug, true /* lower */)
	if slug == "" {
		return false
	}
	nameSlug, codeSlug := Slugify(name), strings.ToLower(code)
	return nameSlug == slug || codeSlug == slug ||
		strings.HasPrefix(nameSlug, slug) || strings.HasPrefix(codeSlug, slug)
}

// SlugIndex returns the index of the first of n subjects designated by slug, preferring exact matches.
// It returns -1 when nothing matches.
func SlugIndex(slug string, n int, nameCode func(i int) (name, code string)) int {
	slug = CleanString(slug, true /* lower */)
	for i := 0; i < n; i++ {
		name, code := nameCode(i)
		if Slugify(name) == slug || strings.ToLower(code) == slug {
			return i
		}
	}
	for i := 0; i < n; i++ {
		name, code := nameCode(i)
		if MatchSlug(slug, name, code) {
			return i
		}
	}
	return -1
}
