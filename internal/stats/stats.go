package stats

import (
	"fmt"
	"math"

	"todo_webapp/internal/domain"
)

// NotAvailable is shown for a bucket with no qualifying tasks.
const NotAvailable = "N/A"

// Average is the mean completion time of one bucket of tasks.
type Average struct {
	Minutes float64 `json:"minutes"`
	Count   int     `json:"count"`
}

// Available reports whether at least one task contributed to the average.
func (a Average) Available() bool {
	return a.Count > 0
}

func (a Average) String() string {
	if !a.Available() {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f minutes", a.Minutes)
}

// Report holds the completion time averages over the full task list.
type Report struct {
	Overall    Average                     `json:"overall"`
	ByPriority map[domain.Priority]Average `json:"byPriority"`
}

// For returns the average of one priority, N/A when nothing qualified.
func (r Report) For(p domain.Priority) Average {
	return r.ByPriority[p]
}

type bucket struct {
	seconds int64
	count   int
}

func (b bucket) average() Average {
	if b.count == 0 {
		return Average{}
	}
	mean := float64(b.seconds) / float64(b.count) / 60
	return Average{Minutes: math.Round(mean*100) / 100, Count: b.count}
}

// Compute averages the time from creation to completion of every completed task
// whose completion timestamp is present and not before its creation. It must be
// given the unfiltered list.
func Compute(tasks []domain.Task) Report {
	var overall bucket
	perPriority := make(map[domain.Priority]bucket, len(domain.Priorities))

	for _, t := range tasks {
		secs, ok := completionSeconds(t)
		if !ok {
			continue
		}
		overall.seconds += secs
		overall.count++

		b := perPriority[t.Priority]
		b.seconds += secs
		b.count++
		perPriority[t.Priority] = b
	}

	report := Report{
		Overall:    overall.average(),
		ByPriority: make(map[domain.Priority]Average, len(domain.Priorities)),
	}
	for _, p := range domain.Priorities {
		report.ByPriority[p] = perPriority[p].average()
	}
	return report
}

func completionSeconds(t domain.Task) (int64, bool) {
	if !t.Completed || t.CompletedAt == nil || t.CreatedAt.IsZero() || t.CompletedAt.IsZero() {
		return 0, false
	}
	d := t.CompletedAt.Sub(t.CreatedAt.Time)
	if d < 0 {
		return 0, false
	}
	return int64(d.Seconds()), true
}
