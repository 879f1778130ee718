package activity

import (
	"errors"
	"sort"
)

// ErrNoActivity signals that the whole report filtered down to nothing. It is
// distinct from a cancelled or failed run.
var ErrNoActivity = errors.New("no activity found in the reporting window")

// ParentGroup is one tree root in the rendered report: all work items sharing
// the same hierarchical parent.
type ParentGroup struct {
	ParentID    int
	ParentTitle string
	Items       []*WorkItemActivity
}

// ProjectSummary is a project entry prepared for rendering: empty work items
// dropped and the rest grouped by parent.
type ProjectSummary struct {
	Project string
	Groups  []ParentGroup
	Commits []Commit
}

// Aggregate filters and groups a report for display. Entries without any
// work-item change events and without commits are dropped entirely; the
// remaining projects are sorted by name so concurrent append order never
// shows through. An empty result yields ErrNoActivity.
func Aggregate(r *Report) ([]ProjectSummary, error) {
	var summaries []ProjectSummary

	for _, entry := range r.Entries() {
		if !entry.HasActivity() {
			continue
		}

		summaries = append(summaries, ProjectSummary{
			Project: entry.Project,
			Groups:  groupByParent(entry.WorkItems),
			Commits: entry.Commits,
		})
	}

	if len(summaries) == 0 {
		return nil, ErrNoActivity
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Project < summaries[j].Project
	})

	return summaries, nil
}

// groupByParent buckets the items with changes under their (parentID,
// parentTitle) pair, keeping first-seen order of parents and the items'
// original order within a group.
func groupByParent(items []*WorkItemActivity) []ParentGroup {
	type key struct {
		id    int
		title string
	}

	var order []key
	buckets := make(map[key][]*WorkItemActivity)

	for _, item := range items {
		if !item.HasChanges() {
			continue
		}
		k := key{id: item.ParentID, title: item.ParentTitle}
		if _, seen := buckets[k]; !seen {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], item)
	}

	groups := make([]ParentGroup, 0, len(order))
	for _, k := range order {
		groups = append(groups, ParentGroup{ParentID: k.id, ParentTitle: k.title, Items: buckets[k]})
	}
	return groups
}
