package journal

import (
	"time"

	"github.com/trezcool/edutracker/core"
)

// All disables a select filter.
const All = "all"

// Sort orders
const (
	SortDateDesc  = "date-desc"
	SortDateAsc   = "date-asc"
	SortTitle     = "title"
	SortWordCount = "word-count"
)

type Subject struct {
	Name       string
	Code       string
	Instructor string
	Semester   string
}

func (s Subject) Slug() string { return core.Slugify(s.Name) }

type Entry struct {
	ID                 int
	Subject            string
	Title              string
	Date               time.Time
	WordCount          int
	Tags               []string
	Mood               string
	Difficulty         string
	Content            string // markdown
	LearningObjectives []string
	QuestionsRaised    []string
}

// Excerpt is the first paragraph of the content.
func (e Entry) Excerpt() string {
	for i := 0; i+1 < len(e.Content); i++ {
		if e.Content[i] == '\n' && e.Content[i+1] == '\n' {
			return e.Content[:i]
		}
	}
	return e.Content
}

type Stats struct {
	TotalEntries     int
	TotalWords       int
	AvgWordsPerEntry int
	SubjectsActive   int
	Tags             []string
}

type SummaryFilter struct {
	Search  string `query:"search"`
	Subject string `query:"subject"`
	Month   string `query:"month"`
}

func (f *SummaryFilter) Clean(defaultMonth string) {
	f.Search = core.CleanString(f.Search)
	if f.Subject == "" {
		f.Subject = All
	}
	if f.Month == "" {
		f.Month = defaultMonth
	}
}

func (f SummaryFilter) Match(e Entry) bool {
	matchesSearch := core.ContainsFold(e.Title, f.Search) ||
		core.ContainsFold(e.Subject, f.Search) ||
		core.ContainsFold(e.Content, f.Search)
	matchesSubject := f.Subject == All || e.Subject == f.Subject
	return matchesSearch && matchesSubject && core.InMonth(e.Date, f.Month)
}

type SubjectFilter struct {
	Search string `query:"search"`
	Sort   string `query:"sort"`
}

func (f *SubjectFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	switch f.Sort {
	case SortDateDesc, SortDateAsc, SortTitle, SortWordCount:
	default:
		f.Sort = SortDateDesc
	}
}

func (f SubjectFilter) Match(e Entry) bool {
	if core.ContainsFold(e.Title, f.Search) || core.ContainsFold(e.Content, f.Search) {
		return true
	}
	for _, tag := range e.Tags {
		if core.ContainsFold(tag, f.Search) {
			return true
		}
	}
	return false
}

type Summary struct {
	Entries  []Entry
	Subjects []Subject
	Stats    Stats // every entry, regardless of the filter
	Filter   SummaryFilter
}

type SubjectJournal struct {
	Subject Subject
	Entries []Entry
	Stats   Stats // every entry of the subject
	Filter  SubjectFilter
}
