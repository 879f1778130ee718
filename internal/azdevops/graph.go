package azdevops

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/quacklibs/azdo/internal/identity"
)

type graphUsersResponse struct {
	Value []struct {
		MailAddress   string `json:"mailAddress"`
		DisplayName   string `json:"displayName"`
		PrincipalName string `json:"principalName"`
		Descriptor    string `json:"descriptor"`
	} `json:"value"`
}

// ListUsers returns the organization's directory entries from the graph
// service.
func (c *Client) ListUsers(ctx context.Context) ([]identity.Entry, error) {
	q := url.Values{}
	q.Set("api-version", "7.0-preview.1")

	var result graphUsersResponse
	if err := c.get(ctx, c.vsspsURL, "/_apis/graph/users", q, &result); err != nil {
		return nil, err
	}

	entries := make([]identity.Entry, 0, len(result.Value))
	for _, u := range result.Value {
		entries = append(entries, identity.Entry{
			MailAddress:   u.MailAddress,
			DisplayName:   u.DisplayName,
			PrincipalName: u.PrincipalName,
			Descriptor:    u.Descriptor,
		})
	}
	return entries, nil
}

type identitiesResponse struct {
	Value []struct {
		ID uuid.UUID `json:"id"`
	} `json:"value"`
}

// MapIdentity maps a directory mail address into the work-tracking identity
// space. The lookup can legitimately come back empty even after a directory
// hit.
func (c *Client) MapIdentity(ctx context.Context, mailAddress string) (uuid.UUID, bool, error) {
	q := url.Values{}
	q.Set("searchFilter", "MailAddress")
	q.Set("filterValue", mailAddress)

	var result identitiesResponse
	if err := c.get(ctx, c.vsspsURL, "/_apis/identities", q, &result); err != nil {
		return uuid.Nil, false, err
	}
	if len(result.Value) == 0 {
		return uuid.Nil, false, nil
	}
	return result.Value[0].ID, true, nil
}
