package journal

import (
	"bytes"
	"html/template"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/trezcool/edutracker/core"
)

// DefaultMonth is the month selected when none is given.
const DefaultMonth = "2024-01"

var md = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

type (
	Repository interface {
		QuerySubjects() ([]Subject, error)
		QueryEntries(studentID int) ([]Entry, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetSummary lists a student's entries across subjects.
func (svc *Service) GetSummary(studentID int, filter SummaryFilter) (Summary, error) {
	filter.Clean(DefaultMonth)

	subjects, err := svc.repo.QuerySubjects()
	if err != nil {
		return Summary{}, errors.Wrap(err, "querying subjects")
	}
	entries, err := svc.repo.QueryEntries(studentID)
	if err != nil {
		return Summary{}, errors.Wrap(err, "querying entries")
	}

	sum := Summary{Subjects: subjects, Stats: computeStats(entries), Filter: filter}
	for _, e := range entries {
		if filter.Match(e) {
			sum.Entries = append(sum.Entries, e)
		}
	}
	sortEntries(sum.Entries, SortDateDesc)
	return sum, nil
}

// GetSubjectJournal lists a student's entries for the subject designated by slug.
func (svc *Service) GetSubjectJournal(studentID int, slug string, filter SubjectFilter) (SubjectJournal, error) {
	filter.Clean()

	subjects, err := svc.repo.QuerySubjects()
	if err != nil {
		return SubjectJournal{}, errors.Wrap(err, "querying subjects")
	}
	idx := core.SlugIndex(slug, len(subjects), func(i int) (string, string) { return subjects[i].Name, subjects[i].Code })
	if idx < 0 {
		return SubjectJournal{}, errors.Wrapf(core.ErrNotFound, "subject %q", slug)
	}
	subject := subjects[idx]

	entries, err := svc.repo.QueryEntries(studentID)
	if err != nil {
		return SubjectJournal{}, errors.Wrap(err, "querying entries")
	}

	var own []Entry
	for _, e := range entries {
		if e.Subject == subject.Name {
			own = append(own, e)
		}
	}

	sj := SubjectJournal{Subject: subject, Stats: computeStats(own), Filter: filter}
	for _, e := range own {
		if filter.Match(e) {
			sj.Entries = append(sj.Entries, e)
		}
	}
	sortEntries(sj.Entries, filter.Sort)
	return sj, nil
}

func computeStats(entries []Entry) Stats {
	var stats Stats
	subjects := make(map[string]struct{})
	seenTags := make(map[string]struct{})
	for _, e := range entries {
		stats.TotalEntries++
		stats.TotalWords += e.WordCount
		subjects[e.Subject] = struct{}{}
		for _, tag := range e.Tags {
			if _, ok := seenTags[tag]; !ok {
				seenTags[tag] = struct{}{}
				stats.Tags = append(stats.Tags, tag)
			}
		}
	}
	stats.SubjectsActive = len(subjects)
	if stats.TotalEntries > 0 {
		stats.AvgWordsPerEntry = int(float64(stats.TotalWords)/float64(stats.TotalEntries) + 0.5)
	}
	return stats
}

func sortEntries(entries []Entry, order string) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch order {
		case SortDateAsc:
			return a.Date.Before(b.Date)
		case SortTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortWordCount:
			return a.WordCount > b.WordCount
		default:
			return a.Date.After(b.Date)
		}
	})
}

// Render converts an entry's markdown content to HTML.
func Render(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", errors.Wrap(err, "rendering markdown")
	}
	return template.HTML(buf.String()), nil
}
