package moments

import (
	"sort"
	"time"
)

// Suggestion ranking parameters.
const (
	locatedMultiplier = 1.3

	anniversaryClose  = 14 * 24 * time.Hour
	anniversaryNear   = 30 * 24 * time.Hour
	multiplierClose   = 2.0
	multiplierNear    = 1.5
	suggestionLimit   = 5
)

// MonthGroup holds the moments anchored in one calendar month.
type MonthGroup struct {
	Month   time.Month
	Moments []Moment
}

// YearGroup holds one calendar year of moments, months most recent first.
type YearGroup struct {
	Year   int
	Months []MonthGroup
}

// FilterBySize drops moments with fewer than min events in their window.
// The filter counts every event in the window, not just pending ones, so a
// large occasion that is mostly reviewed still passes. A min of 1 or less
// filters nothing.
func FilterBySize(ms []Moment, min int) []Moment {
	if min <= 1 {
		return ms
	}
	var out []Moment
	for _, m := range ms {
		if m.TotalInWindow >= min {
			out = append(out, m)
		}
	}
	return out
}

// GroupByMonth arranges moments by calendar year and month of their anchor,
// most recent first at both levels. Moments without an anchor are bucketed
// under now rather than dropped.
func GroupByMonth(ms []Moment, now time.Time) []YearGroup {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key][]Moment)
	for _, m := range ms {
		anchor := now
		if m.Anchor != nil {
			anchor = *m.Anchor
		}
		k := key{anchor.Year(), anchor.Month()}
		buckets[k] = append(buckets[k], m)
	}

	keys := make([]key, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year > keys[j].year
		}
		return keys[i].month > keys[j].month
	})

	var out []YearGroup
	for _, k := range keys {
		if len(out) == 0 || out[len(out)-1].Year != k.year {
			out = append(out, YearGroup{Year: k.year})
		}
		yg := &out[len(out)-1]
		yg.Months = append(yg.Months, MonthGroup{Month: k.month, Moments: buckets[k]})
	}
	return out
}

// Suggest picks the moments most worth reviewing right now: up to five,
// scored by window size boosted for located moments and for anchors close
// to their one-year anniversary. Ties keep chronological order. This is
// deliberately not a plain recency or size sort.
func Suggest(ms []Moment, now time.Time) []Moment {
	scored := make([]Moment, len(ms))
	copy(scored, ms)

	scores := make(map[string]float64, len(ms))
	for _, m := range scored {
		scores[m.ID] = suggestionScore(m, now)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scores[scored[i].ID] > scores[scored[j].ID]
	})

	if len(scored) > suggestionLimit {
		scored = scored[:suggestionLimit]
	}
	return scored
}

func suggestionScore(m Moment, now time.Time) float64 {
	score := float64(m.TotalInWindow)
	if m.RepresentativeLocated != nil {
		score *= locatedMultiplier
	}
	score *= recencyMultiplier(m.Anchor, now)
	return score
}

// recencyMultiplier rewards moments whose anchor sits near its one-year
// anniversary: 2.0 within two weeks of a year ago, 1.5 within a month.
func recencyMultiplier(anchor *time.Time, now time.Time) float64 {
	if anchor == nil {
		return 1.0
	}
	yearAgo := now.AddDate(-1, 0, 0)
	diff := anchor.Sub(yearAgo)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= anniversaryClose:
		return multiplierClose
	case diff <= anniversaryNear:
		return multiplierNear
	default:
		return 1.0
	}
}
