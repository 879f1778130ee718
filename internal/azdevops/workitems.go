package azdevops

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quacklibs/azdo/internal/activity"
	"github.com/quacklibs/azdo/internal/timerange"
)

// hierarchyReverse is the relation kind that points at a work item's parent.
const hierarchyReverse = "System.LinkTypes.Hierarchy-Reverse"

type wiqlRequest struct {
	Query string `json:"query"`
}

type wiqlResponse struct {
	WorkItems []struct {
		ID int `json:"id"`
	} `json:"workItems"`
}

// QueryChangedItems selects, organization wide, every work item the user
// changed inside the window.
func (c *Client) QueryChangedItems(ctx context.Context, email string, window timerange.Range) ([]int, error) {
	query := fmt.Sprintf(
		"SELECT [System.Id], [System.Title], [System.ChangedDate] "+
			"FROM WorkItems "+
			"WHERE [System.ChangedBy] = '%s' "+
			"AND [System.ChangedDate] >= '%s' "+
			"AND [System.ChangedDate] <= '%s'",
		email, window.From.Format("2006-01-02"), window.Till.Format("2006-01-02"))

	var result wiqlResponse
	if err := c.postJSON(ctx, c.orgURL, "/_apis/wit/wiql", nil, wiqlRequest{Query: query}, &result); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(result.WorkItems))
	for _, wi := range result.WorkItems {
		ids = append(ids, wi.ID)
	}
	return ids, nil
}

type workItemResponse struct {
	ID        int            `json:"id"`
	Fields    map[string]any `json:"fields"`
	Relations []struct {
		Rel string `json:"rel"`
		URL string `json:"url"`
	} `json:"relations"`
}

func (r workItemResponse) field(name string) string {
	if v, ok := r.Fields[name]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "N/A"
}

// GetWorkItem fetches one item with its relations expanded and resolves the
// hierarchy parent from the relation URL's last path segment.
func (c *Client) GetWorkItem(ctx context.Context, id int) (activity.WorkItem, error) {
	q := url.Values{}
	q.Set("$expand", "relations")

	var result workItemResponse
	if err := c.get(ctx, c.orgURL, fmt.Sprintf("/_apis/wit/workitems/%d", id), q, &result); err != nil {
		return activity.WorkItem{}, err
	}

	parentID := 0
	for _, rel := range result.Relations {
		if rel.Rel != hierarchyReverse {
			continue
		}
		// the relation URL ends in .../workItems/{id}
		segments := strings.Split(rel.URL, "/")
		if n, err := strconv.Atoi(segments[len(segments)-1]); err == nil {
			parentID = n
		}
		break
	}

	return activity.WorkItem{
		ID:       result.ID,
		Title:    result.field("System.Title"),
		Project:  result.field("System.TeamProject"),
		ParentID: parentID,
	}, nil
}

// GetWorkItemTitle fetches just the title of an item, used for parent links.
func (c *Client) GetWorkItemTitle(ctx context.Context, id int) (string, error) {
	var result workItemResponse
	if err := c.get(ctx, c.orgURL, fmt.Sprintf("/_apis/wit/workitems/%d", id), nil, &result); err != nil {
		return "", err
	}
	return result.field("System.Title"), nil
}

type revisionsResponse struct {
	Value []struct {
		Fields struct {
			ChangedDate time.Time `json:"System.ChangedDate"`
			State       string    `json:"System.State"`
		} `json:"fields"`
	} `json:"value"`
}

// GetRevisions returns the item's full revision history, ascending by change
// timestamp.
func (c *Client) GetRevisions(ctx context.Context, id int) ([]activity.Revision, error) {
	var result revisionsResponse
	if err := c.get(ctx, c.orgURL, fmt.Sprintf("/_apis/wit/workItems/%d/revisions", id), nil, &result); err != nil {
		return nil, err
	}

	revisions := make([]activity.Revision, 0, len(result.Value))
	for _, rev := range result.Value {
		revisions = append(revisions, activity.Revision{
			ChangedAt: rev.Fields.ChangedDate,
			State:     rev.Fields.State,
		})
	}

	sort.Slice(revisions, func(i, j int) bool {
		return revisions[i].ChangedAt.Before(revisions[j].ChangedAt)
	})
	return revisions, nil
}

type commentsResponse struct {
	Comments []struct {
		Text      string `json:"text"`
		RevisedBy struct {
			DisplayName string `json:"displayName"`
		} `json:"revisedBy"`
		RevisedDate time.Time `json:"revisedDate"`
	} `json:"comments"`
}

// GetComments returns all discussion comments on the item.
func (c *Client) GetComments(ctx context.Context, id int) ([]activity.Comment, error) {
	q := url.Values{}
	q.Set("api-version", "7.0-preview.3")

	var result commentsResponse
	if err := c.get(ctx, c.orgURL, fmt.Sprintf("/_apis/wit/workItems/%d/comments", id), q, &result); err != nil {
		return nil, err
	}

	comments := make([]activity.Comment, 0, len(result.Comments))
	for _, cm := range result.Comments {
		comments = append(comments, activity.Comment{
			PostedAt: cm.RevisedDate,
			Author:   cm.RevisedBy.DisplayName,
			Body:     strings.TrimSpace(cm.Text),
		})
	}
	return comments, nil
}
