// Package identity resolves a free-text person query against the
// organization's directory and maps the match into the work-tracking
// service's identity space.
package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// User is a fully resolved identity. Immutable once constructed.
type User struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}

// Resolution is the outcome of a lookup. Found distinguishes a usable User
// from a miss; Query carries the original input for the miss branch.
type Resolution struct {
	User  User
	Found bool
	Query string
}

// NotFound marks a failed resolution for the given input.
func NotFound(query string) Resolution {
	return Resolution{Query: query}
}

// Entry is one directory record as returned by the graph service.
type Entry struct {
	MailAddress   string
	DisplayName   string
	PrincipalName string
	Descriptor    string
}

// Directory is the external identity/graph service. MapIdentity performs the
// secondary lookup from a mail address into the work-tracking identity space;
// it can miss even when the directory search matched.
type Directory interface {
	ListUsers(ctx context.Context) ([]Entry, error)
	MapIdentity(ctx context.Context, mailAddress string) (uuid.UUID, bool, error)
}

// Selector is the interactive disambiguation prompt. It returns false when
// the user declines to pick a candidate.
type Selector func(candidates []Entry) (Entry, bool)

// DisplayString renders a candidate the way the prompt shows it.
func DisplayString(e Entry) string {
	return e.DisplayName + " " + e.MailAddress
}

type Resolver struct {
	directory Directory
	selectFn  Selector
}

func NewResolver(directory Directory, selectFn Selector) *Resolver {
	return &Resolver{directory: directory, selectFn: selectFn}
}

// Resolve matches query case-insensitively against each entry's mail address,
// display name and principal name. An empty query resolves to a miss without
// touching the directory. A single match resolves directly; multiple matches
// go through the selector.
func (r *Resolver) Resolve(ctx context.Context, query string) (Resolution, error) {
	if query == "" {
		return NotFound(""), nil
	}

	entries, err := r.directory.ListUsers(ctx)
	if err != nil {
		return NotFound(query), err
	}

	var matches []Entry
	for _, e := range entries {
		if e.MailAddress == "" {
			continue
		}
		if matchesQuery(e, query) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return NotFound(query), nil
	case 1:
		return r.toUser(ctx, matches[0], query)
	default:
		choice, ok := r.selectFn(matches)
		if !ok {
			return NotFound(query), nil
		}
		return r.toUser(ctx, choice, query)
	}
}

func matchesQuery(e Entry, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.MailAddress), q) ||
		strings.Contains(strings.ToLower(e.DisplayName), q) ||
		strings.Contains(strings.ToLower(e.PrincipalName), q)
}

// toUser maps a directory entry to a work-tracking identity. The mapping is a
// separate remote lookup and its miss is reported under the entry's display
// name, not the original query.
func (r *Resolver) toUser(ctx context.Context, e Entry, query string) (Resolution, error) {
	id, ok, err := r.directory.MapIdentity(ctx, e.MailAddress)
	if err != nil {
		return NotFound(e.DisplayName), err
	}
	if !ok {
		return NotFound(e.DisplayName), nil
	}

	return Resolution{
		User: User{
			ID:          id,
			Email:       e.MailAddress,
			DisplayName: e.DisplayName,
		},
		Found: true,
		Query: query,
	}, nil
}
