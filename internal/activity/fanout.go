package activity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/quacklibs/azdo/internal/identity"
	"github.com/quacklibs/azdo/internal/timerange"
)

// WorkItemService is the work-item tracking side of the remote organization.
type WorkItemService interface {
	// QueryChangedItems returns the ids of all work items the user changed
	// inside the window, across the whole organization.
	QueryChangedItems(ctx context.Context, email string, window timerange.Range) ([]int, error)
	// GetWorkItem fetches one item with its hierarchy parent resolved.
	GetWorkItem(ctx context.Context, id int) (WorkItem, error)
	// GetWorkItemTitle fetches just the title, used for parent lookups.
	GetWorkItemTitle(ctx context.Context, id int) (string, error)
	GetRevisions(ctx context.Context, id int) ([]Revision, error)
	GetComments(ctx context.Context, id int) ([]Comment, error)
}

// GitService is the source-control side of the remote organization.
type GitService interface {
	ListProjects(ctx context.Context) ([]string, error)
	ListRepositories(ctx context.Context, project string) ([]Repository, error)
	ListCommits(ctx context.Context, project, repoID, authorEmail string, window timerange.Range) ([]Commit, error)
}

// workerCount bounds the commit sweep; one worker handles one project at a
// time.
const workerCount = 5

// Engine runs the two retrieval paths of a report: the sequential
// organization-wide work-item sweep and the concurrent per-project commit
// sweep.
type Engine struct {
	workItems WorkItemService
	git       GitService
	log       *slog.Logger
	workers   int
}

func NewEngine(workItems WorkItemService, git GitService, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{workItems: workItems, git: git, log: log, workers: workerCount}
}

// Run produces the report for one user and window. A cancelled context
// surfaces as an error so the caller never mistakes cancellation for an empty
// report.
func (e *Engine) Run(ctx context.Context, user identity.User, window timerange.Range) (*Report, error) {
	projects, err := e.git.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	report := NewReport(window.From, window.Till, user.Email)

	allItems, err := e.changedWorkItems(ctx, user.Email, window)
	if err != nil {
		return nil, err
	}

	byProject := make(map[string][]*WorkItemActivity)
	for _, item := range allItems {
		byProject[item.Project] = append(byProject[item.Project], item)
	}

	if err := e.sweepCommits(ctx, projects, byProject, user.Email, window, report); err != nil {
		return nil, err
	}

	return report, nil
}

// changedWorkItems runs the organization-wide query and expands each hit one
// at a time: item with relations, parent title, revisions, comments, diff.
// Up to four round trips per item; a failure on any of them aborts the run.
func (e *Engine) changedWorkItems(ctx context.Context, email string, window timerange.Range) ([]*WorkItemActivity, error) {
	ids, err := e.workItems.QueryChangedItems(ctx, email, window)
	if err != nil {
		return nil, fmt.Errorf("querying changed work items: %w", err)
	}

	e.log.Debug("work item query finished", "matches", len(ids))

	var activities []*WorkItemActivity
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item, err := e.workItems.GetWorkItem(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetching work item %d: %w", id, err)
		}

		parentTitle := "N/A"
		if item.ParentID != 0 {
			parentTitle, err = e.workItems.GetWorkItemTitle(ctx, item.ParentID)
			if err != nil {
				return nil, fmt.Errorf("fetching parent %d of work item %d: %w", item.ParentID, id, err)
			}
		}

		revisions, err := e.workItems.GetRevisions(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetching revisions of work item %d: %w", id, err)
		}

		comments, err := e.workItems.GetComments(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetching comments of work item %d: %w", id, err)
		}

		activities = append(activities, &WorkItemActivity{
			ID:          item.ID,
			Title:       item.Title,
			Project:     item.Project,
			ParentID:    item.ParentID,
			ParentTitle: parentTitle,
			Changes:     DiffChanges(revisions, comments, window),
		})
	}

	return activities, nil
}

// sweepCommits walks the project list with a fixed pool of workers. Each
// worker lists the project's repositories and queries them one by one; a
// single repository failure is logged and skipped without disturbing the
// rest of the project or its siblings.
func (e *Engine) sweepCommits(ctx context.Context, projects []string, workItems map[string][]*WorkItemActivity, email string, window timerange.Range, report *Report) error {
	queue := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for project := range queue {
				commits := e.projectCommits(ctx, project, email, window)
				report.AddEntry(ProjectEntry{
					Project:   project,
					WorkItems: workItems[project],
					Commits:   commits,
				})
			}
		}()
	}

	var cancelled error
feed:
	for _, project := range projects {
		select {
		case queue <- project:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		}
	}
	close(queue)
	wg.Wait()

	if cancelled != nil {
		return cancelled
	}
	return ctx.Err()
}

func (e *Engine) projectCommits(ctx context.Context, project, email string, window timerange.Range) []Commit {
	repos, err := e.git.ListRepositories(ctx, project)
	if err != nil {
		e.log.Warn("repository listing failed", "project", project, "error", err)
		return nil
	}

	var commits []Commit
	for _, repo := range repos {
		if ctx.Err() != nil {
			return commits
		}

		found, err := e.git.ListCommits(ctx, project, repo.ID, email, window)
		if err != nil {
			// a broken repository must not sink the rest of the project
			e.log.Warn("repository query failed", "project", project, "repo", repo.Name, "error", err)
			continue
		}
		commits = append(commits, found...)
	}
	return commits
}
