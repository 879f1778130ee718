package activity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quacklibs/azdo/internal/identity"
	"github.com/quacklibs/azdo/internal/timerange"
)

type fakeWorkItems struct {
	ids       []int
	items     map[int]WorkItem
	titles    map[int]string
	revisions map[int][]Revision
	comments  map[int][]Comment
	queryErr  error
}

func (f *fakeWorkItems) QueryChangedItems(ctx context.Context, email string, w timerange.Range) ([]int, error) {
	return f.ids, f.queryErr
}

func (f *fakeWorkItems) GetWorkItem(ctx context.Context, id int) (WorkItem, error) {
	item, ok := f.items[id]
	if !ok {
		return WorkItem{}, fmt.Errorf("work item %d missing", id)
	}
	return item, nil
}

func (f *fakeWorkItems) GetWorkItemTitle(ctx context.Context, id int) (string, error) {
	return f.titles[id], nil
}

func (f *fakeWorkItems) GetRevisions(ctx context.Context, id int) ([]Revision, error) {
	return f.revisions[id], nil
}

func (f *fakeWorkItems) GetComments(ctx context.Context, id int) ([]Comment, error) {
	return f.comments[id], nil
}

type fakeGit struct {
	mu       sync.Mutex
	projects []string
	repos    map[string][]Repository
	commits  map[string][]Commit // keyed by repo id
	failRepo map[string]error
	inFlight int
	maxSeen  int
	block    chan struct{}
}

func (f *fakeGit) ListProjects(ctx context.Context) ([]string, error) {
	return f.projects, nil
}

func (f *fakeGit) ListRepositories(ctx context.Context, project string) ([]Repository, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	return f.repos[project], nil
}

func (f *fakeGit) ListCommits(ctx context.Context, project, repoID, email string, w timerange.Range) ([]Commit, error) {
	if err := f.failRepo[repoID]; err != nil {
		return nil, err
	}
	return f.commits[repoID], nil
}

var (
	testUser   = identity.User{Email: "alice@example.com", DisplayName: "Alice Price"}
	testWindow = timerange.Range{
		From: time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local),
		Till: time.Date(2024, 6, 11, 17, 0, 0, 0, time.Local),
	}
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAssociatesWorkItemsWithProjects(t *testing.T) {
	inWindow := testWindow.From.Add(10 * time.Hour)
	wi := &fakeWorkItems{
		ids: []int{101, 102},
		items: map[int]WorkItem{
			101: {ID: 101, Title: "Fix login", Project: "Alpha", ParentID: 7},
			102: {ID: 102, Title: "Ship exports", Project: "Beta"},
		},
		titles: map[int]string{7: "Auth epic"},
		revisions: map[int][]Revision{
			101: {{ChangedAt: inWindow, State: "New"}},
			102: {{ChangedAt: inWindow, State: "New"}},
		},
	}
	git := &fakeGit{projects: []string{"Alpha", "Beta", "Gamma"}}

	engine := NewEngine(wi, git, quietLogger())
	report, err := engine.Run(context.Background(), testUser, testWindow)
	require.NoError(t, err)

	entries := report.Entries()
	require.Len(t, entries, 3)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Project < entries[j].Project })

	require.Len(t, entries[0].WorkItems, 1)
	assert.Equal(t, "Fix login", entries[0].WorkItems[0].Title)
	assert.Equal(t, "Auth epic", entries[0].WorkItems[0].ParentTitle)
	assert.Equal(t, 7, entries[0].WorkItems[0].ParentID)
	require.Len(t, entries[0].WorkItems[0].Changes, 1)

	assert.Equal(t, "N/A", entries[1].WorkItems[0].ParentTitle, "item without parent")
	assert.Empty(t, entries[2].WorkItems)
}

func TestRunSurvivesSingleRepositoryFailure(t *testing.T) {
	git := &fakeGit{
		projects: []string{"Alpha"},
		repos: map[string][]Repository{
			"Alpha": {{ID: "r1", Name: "api"}, {ID: "r2", Name: "web"}, {ID: "r3", Name: "infra"}},
		},
		commits: map[string][]Commit{
			"r1": {{ID: "c1", Author: "Alice Price", Message: "fix"}},
			"r3": {{ID: "c3", Author: "Alice Price", Message: "chore"}},
		},
		failRepo: map[string]error{"r2": errors.New("boom")},
	}

	engine := NewEngine(&fakeWorkItems{}, git, quietLogger())
	report, err := engine.Run(context.Background(), testUser, testWindow)
	require.NoError(t, err)

	entries := report.Entries()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Commits, 2)
	assert.Equal(t, "c1", entries[0].Commits[0].ID)
	assert.Equal(t, "c3", entries[0].Commits[1].ID)
}

func TestRunBoundsConcurrency(t *testing.T) {
	projects := make([]string, 20)
	for i := range projects {
		projects[i] = fmt.Sprintf("project-%02d", i)
	}
	git := &fakeGit{projects: projects, block: make(chan struct{})}
	engine := NewEngine(&fakeWorkItems{}, git, quietLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := engine.Run(context.Background(), testUser, testWindow)
		assert.NoError(t, err)
	}()

	// let the pool saturate, then release everyone
	time.Sleep(50 * time.Millisecond)
	close(git.block)
	<-done

	git.mu.Lock()
	defer git.mu.Unlock()
	assert.LessOrEqual(t, git.maxSeen, workerCount)
	assert.Equal(t, workerCount, git.maxSeen, "pool should saturate with 20 projects queued")
}

func TestRunCancelledIsNotEmptyReport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	git := &fakeGit{projects: []string{"Alpha", "Beta"}}
	engine := NewEngine(&fakeWorkItems{}, git, quietLogger())

	_, err := engine.Run(ctx, testUser, testWindow)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWorkItemQueryErrorAbortsRun(t *testing.T) {
	wi := &fakeWorkItems{queryErr: errors.New("wiql rejected")}
	git := &fakeGit{projects: []string{"Alpha"}}
	engine := NewEngine(wi, git, quietLogger())

	_, err := engine.Run(context.Background(), testUser, testWindow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying changed work items")
}

func TestReportAddEntryConcurrent(t *testing.T) {
	report := NewReport(testWindow.From, testWindow.Till, testUser.Email)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			report.AddEntry(ProjectEntry{Project: fmt.Sprintf("p%d", n)})
		}(i)
	}
	wg.Wait()

	assert.Len(t, report.Entries(), 50)
}
