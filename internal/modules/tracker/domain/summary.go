package domain

import (
	"sort"
	"time"
)

// SummaryLimit is how many recently active projects a summary shows.
const SummaryLimit = 2

type TaskTotal struct {
	Task     string
	Duration time.Duration
}

type ProjectSummary struct {
	Project string
	Meta    ProjectMeta
	Last    int64
	Tasks   []TaskTotal
	Total   time.Duration
}

// Summarize ranks ledger projects by their latest session end, newest first,
// and totals the top limit of them. Ties keep ledger order.
func Summarize(ledger *Ledger, metaFor func(project string) ProjectMeta, limit int) []ProjectSummary {
	type ranked struct {
		project string
		last    int64
	}
	projects := ledger.Projects()
	order := make([]ranked, 0, len(projects))
	for _, project := range projects {
		order = append(order, ranked{project: project, last: ledger.LastEnd(project)})
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].last > order[j].last })
	if limit >= 0 && len(order) > limit {
		order = order[:limit]
	}

	out := make([]ProjectSummary, 0, len(order))
	for _, r := range order {
		summary := ProjectSummary{Project: r.project, Last: r.last}
		if metaFor != nil {
			summary.Meta = metaFor(r.project)
		}
		for _, task := range ledger.Tasks(r.project) {
			var spent time.Duration
			for _, session := range ledger.Sessions(r.project, task) {
				spent += session.Duration()
			}
			summary.Tasks = append(summary.Tasks, TaskTotal{Task: task, Duration: spent})
			summary.Total += spent
		}
		out = append(out, summary)
	}
	return out
}
