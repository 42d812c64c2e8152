// Package grading holds the single grade computation shared by every screen:
// percentage with an optional late penalty, the letter scale and the color bands.
package grading

import "math"

// Band buckets a percentage for display.
type Band string

const (
	BandExcellent Band = "excellent" // >= 90
	BandGood      Band = "good"      // >= 80
	BandFair      Band = "fair"      // >= 70
	BandPoor      Band = "poor"
)

type threshold struct {
	min    float64
	letter string
}

// letterScale is ordered from the highest threshold down.
var letterScale = []threshold{
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{65, "D"},
}

// Input is a raw score entry.
type Input struct {
	Score       float64
	MaxScore    float64
	Late        bool
	LatePenalty float64 // points, only applied when Late
}

type Result struct {
	FinalScore float64
	Percentage float64 // one decimal
	Letter     string
	Band       Band
}

// Compute applies the late penalty, then derives the percentage and letter.
// A non-positive MaxScore is treated as 1.
func Compute(in Input) Result {
	pct := Percentage(in.Score, in.MaxScore, in.LatePenalty, in.Late)
	return Result{
		FinalScore: FinalScore(in.Score, in.LatePenalty, in.Late),
		Percentage: pct,
		Letter:     Letter(pct),
		Band:       BandOf(pct),
	}
}

// FinalScore is the score after the late penalty, never below zero.
func FinalScore(score, penalty float64, late bool) float64 {
	if !late {
		penalty = 0
	}
	return math.Max(0, score-penalty)
}

// Percentage returns round1(max(0, score - penalty) / maxScore * 100).
func Percentage(score, maxScore, penalty float64, late bool) float64 {
	if maxScore <= 0 {
		maxScore = 1
	}
	return Round1(FinalScore(score, penalty, late) / maxScore * 100)
}

// Letter maps a percentage onto the letter scale. Thresholds are inclusive lower bounds.
func Letter(pct float64) string {
	for _, t := range letterScale {
		if pct >= t.min {
			return t.letter
		}
	}
	return "F"
}

func BandOf(pct float64) Band {
	switch {
	case pct >= 90:
		return BandExcellent
	case pct >= 80:
		return BandGood
	case pct >= 70:
		return BandFair
	default:
		return BandPoor
	}
}

// Credit is a graded course weighted by its credits.
type Credit struct {
	GPA     float64
	Credits int
}

// WeightedGPA returns sum(gpa*credits)/sum(credits), or 0 without credits.
func WeightedGPA(courses []Credit) float64 {
	var points float64
	var credits int
	for _, c := range courses {
		points += c.GPA * float64(c.Credits)
		credits += c.Credits
	}
	if credits == 0 {
		return 0
	}
	return points / float64(credits)
}

// Rate returns part/total as a one decimal percentage, or 0 when total is 0.
func Rate(part, total int) float64 {
	return Ratio(float64(part), float64(total))
}

// Ratio is Rate for measured quantities: 0 when total is not positive.
func Ratio(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return Round1(part / total * 100)
}

// Weighted is a graded item counting Weight times in an average.
type Weighted struct {
	Score    float64
	MaxScore float64
	Weight   int
}

// WeightedPercentage averages the items' percentages by weight. Items without weight are ignored.
func WeightedPercentage(items []Weighted) float64 {
	var sum float64
	var weights int
	for _, it := range items {
		if it.Weight <= 0 {
			continue
		}
		sum += Percentage(it.Score, it.MaxScore, 0, false) * float64(it.Weight)
		weights += it.Weight
	}
	if weights == 0 {
		return 0
	}
	return Round1(sum / float64(weights))
}

// Round1 rounds to one decimal place.
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}
