package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "mathematics-101", Slugify("Mathematics 101"))
	assert.Equal(t, "history-modern", Slugify("  History   Modern "))
	assert.Equal(t, "", Slugify(""))
}

func TestMatchSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"mathematics-101", true},
		{"math101", true},
		{"MATH", true},
		{"math", true},
		{"physics", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, MatchSlug(tt.slug, "Mathematics 101", "MATH101"), "MatchSlug(%q)", tt.slug)
	}
}

func TestInMonth(t *testing.T) {
	d := MustParseDate("2024-01-20")
	assert.True(t, InMonth(d, "2024-01"))
	assert.False(t, InMonth(d, "2023-12"))
	assert.True(t, InMonth(d, ""))
}

func TestMustParseDateTime(t *testing.T) {
	assert.Equal(t, time.Date(2024, 1, 20, 14, 15, 0, 0, time.UTC), MustParseDateTime("2024-01-20 02:15 PM"))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Hello", CleanString("  Hello "))
	assert.Equal(t, "hello", CleanString(" HeLLo", true))
}

func TestSlugIndex(t *testing.T) {
	subjects := [][2]string{{"Mathematics 101", "MATH101"}, {"Math Club", "MC1"}, {"Physics Advanced", "PHYS201"}}
	nameCode := func(i int) (string, string) { return subjects[i][0], subjects[i][1] }

	assert.Equal(t, 1, SlugIndex("math-club", len(subjects), nameCode))
	assert.Equal(t, 0, SlugIndex("math", len(subjects), nameCode))
	assert.Equal(t, 2, SlugIndex("phys201", len(subjects), nameCode))
	assert.Equal(t, -1, SlugIndex("biology", len(subjects), nameCode))
}
