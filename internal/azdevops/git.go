package azdevops

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/quacklibs/azdo/internal/activity"
	"github.com/quacklibs/azdo/internal/timerange"
)

type projectsResponse struct {
	Value []struct {
		Name string `json:"name"`
	} `json:"value"`
}

// ListProjects returns the names of all well-formed projects in the
// organization.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	q := url.Values{}
	q.Set("stateFilter", "wellFormed")

	var result projectsResponse
	if err := c.get(ctx, c.orgURL, "/_apis/projects", q, &result); err != nil {
		return nil, err
	}

	projects := make([]string, 0, len(result.Value))
	for _, p := range result.Value {
		projects = append(projects, p.Name)
	}
	return projects, nil
}

type repositoriesResponse struct {
	Value []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"value"`
}

func (c *Client) ListRepositories(ctx context.Context, project string) ([]activity.Repository, error) {
	var result repositoriesResponse
	path := fmt.Sprintf("/%s/_apis/git/repositories", url.PathEscape(project))
	if err := c.get(ctx, c.orgURL, path, nil, &result); err != nil {
		return nil, err
	}

	repos := make([]activity.Repository, 0, len(result.Value))
	for _, r := range result.Value {
		repos = append(repos, activity.Repository{ID: r.ID, Name: r.Name})
	}
	return repos, nil
}

type commitsResponse struct {
	Value []struct {
		CommitID string `json:"commitId"`
		Author   struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
		Comment   string `json:"comment"`
		RemoteURL string `json:"remoteUrl"`
	} `json:"value"`
}

// ListCommits queries one repository for commits authored by the user inside
// the window.
func (c *Client) ListCommits(ctx context.Context, project, repoID, authorEmail string, window timerange.Range) ([]activity.Commit, error) {
	q := url.Values{}
	q.Set("searchCriteria.author", authorEmail)
	q.Set("searchCriteria.fromDate", window.From.Format(time.RFC3339))
	q.Set("searchCriteria.toDate", window.Till.Format(time.RFC3339))

	var result commitsResponse
	path := fmt.Sprintf("/%s/_apis/git/repositories/%s/commits", url.PathEscape(project), url.PathEscape(repoID))
	if err := c.get(ctx, c.orgURL, path, q, &result); err != nil {
		return nil, err
	}

	commits := make([]activity.Commit, 0, len(result.Value))
	for _, cm := range result.Value {
		commits = append(commits, activity.Commit{
			ID:        cm.CommitID,
			Author:    cm.Author.Name,
			Message:   cm.Comment,
			URL:       cm.RemoteURL,
			Timestamp: cm.Author.Date,
		})
	}
	return commits, nil
}
