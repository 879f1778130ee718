package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportWith(entries ...ProjectEntry) *Report {
	r := NewReport(time.Now().AddDate(0, 0, -1), time.Now(), "alice@example.com")
	for _, e := range entries {
		r.AddEntry(e)
	}
	return r
}

func itemWithChange(id int, title string, parentID int, parentTitle string) *WorkItemActivity {
	return &WorkItemActivity{
		ID:          id,
		Title:       title,
		ParentID:    parentID,
		ParentTitle: parentTitle,
		Changes:     []ChangeEvent{Created{At: time.Now(), State: "New"}},
	}
}

func TestAggregateFiltersEmptyEntries(t *testing.T) {
	summaries, err := Aggregate(reportWith(
		ProjectEntry{Project: "Empty"},
		ProjectEntry{Project: "Quiet", WorkItems: []*WorkItemActivity{{ID: 1, Title: "no changes"}}},
		ProjectEntry{Project: "Busy", WorkItems: []*WorkItemActivity{itemWithChange(2, "work", 0, "N/A")}},
	))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Busy", summaries[0].Project)
}

func TestAggregateCommitOnlyEntrySurvives(t *testing.T) {
	summaries, err := Aggregate(reportWith(
		ProjectEntry{Project: "Infra", Commits: []Commit{{ID: "c1"}}},
	))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Empty(t, summaries[0].Groups)
	assert.Len(t, summaries[0].Commits, 1)
}

func TestAggregateAllFilteredSignalsNoActivity(t *testing.T) {
	_, err := Aggregate(reportWith(
		ProjectEntry{Project: "Empty"},
		ProjectEntry{Project: "Quieter"},
	))
	assert.ErrorIs(t, err, ErrNoActivity)
}

func TestAggregateEmptyReportSignalsNoActivity(t *testing.T) {
	_, err := Aggregate(reportWith())
	assert.ErrorIs(t, err, ErrNoActivity)
}

func TestAggregateGroupsByParent(t *testing.T) {
	summaries, err := Aggregate(reportWith(ProjectEntry{
		Project: "Alpha",
		WorkItems: []*WorkItemActivity{
			itemWithChange(1, "login", 7, "Auth epic"),
			itemWithChange(2, "tokens", 7, "Auth epic"),
			itemWithChange(3, "orphan", 0, "N/A"),
			{ID: 4, Title: "silent", ParentID: 7, ParentTitle: "Auth epic"},
		},
	}))
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	groups := summaries[0].Groups
	require.Len(t, groups, 2)

	assert.Equal(t, 7, groups[0].ParentID)
	assert.Equal(t, "Auth epic", groups[0].ParentTitle)
	require.Len(t, groups[0].Items, 2, "silent item is excluded")
	assert.Equal(t, "login", groups[0].Items[0].Title)
	assert.Equal(t, "tokens", groups[0].Items[1].Title)

	assert.Equal(t, 0, groups[1].ParentID)
	assert.Equal(t, "N/A", groups[1].ParentTitle)
}

func TestAggregateSortsProjects(t *testing.T) {
	summaries, err := Aggregate(reportWith(
		ProjectEntry{Project: "Zulu", Commits: []Commit{{ID: "z"}}},
		ProjectEntry{Project: "Alpha", Commits: []Commit{{ID: "a"}}},
		ProjectEntry{Project: "Mike", Commits: []Commit{{ID: "m"}}},
	))
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Alpha", summaries[0].Project)
	assert.Equal(t, "Mike", summaries[1].Project)
	assert.Equal(t, "Zulu", summaries[2].Project)
}
