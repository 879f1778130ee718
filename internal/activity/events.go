// Package activity reconstructs what a user changed during a reporting
// window: the revision diff per work item, the concurrent fan-out over
// projects and repositories, and the grouping of the results into a report.
package activity

import (
	"fmt"
	"time"
)

// ChangeEvent is one thing that happened to a work item inside the window.
type ChangeEvent interface {
	When() time.Time
	Category() string
	Text() string
}

// Created marks the work item's first revision falling inside the window.
type Created struct {
	At    time.Time
	State string
}

func (c Created) When() time.Time  { return c.At }
func (c Created) Category() string { return "Workitem Created" }
func (c Created) Text() string {
	return fmt.Sprintf("%s created in state %s", c.At.Format(displayTime), c.State)
}

// StateChanged is a transition between two states.
type StateChanged struct {
	At        time.Time
	FromState string
	ToState   string
}

func (s StateChanged) When() time.Time  { return s.At }
func (s StateChanged) Category() string { return "State Changed" }
func (s StateChanged) Text() string {
	return fmt.Sprintf("%s from %s to %s", s.At.Format(displayTime), s.FromState, s.ToState)
}

// CommentAdded is a discussion comment posted inside the window. Body holds
// the raw HTML as returned by the service; stripping is a render concern.
type CommentAdded struct {
	At     time.Time
	Author string
	Body   string
}

func (c CommentAdded) When() time.Time  { return c.At }
func (c CommentAdded) Category() string { return "Comment added" }
func (c CommentAdded) Text() string {
	return fmt.Sprintf("%s by %s: %s", c.At.Format(displayTime), c.Author, c.Body)
}

const displayTime = "02-01-2006 15:04"

// Revision is one immutable snapshot of a work item's fields.
type Revision struct {
	ChangedAt time.Time
	State     string
}

// Comment is one discussion entry on a work item.
type Comment struct {
	PostedAt time.Time
	Author   string
	Body     string
}

// Commit is a source-control commit authored inside the window.
type Commit struct {
	ID        string
	Author    string
	Message   string
	URL       string
	Timestamp time.Time
}

// Repository is a git repository inside a project.
type Repository struct {
	ID   string
	Name string
}

// WorkItem is a work item with its parent link already resolved from the
// hierarchy relation.
type WorkItem struct {
	ID       int
	Title    string
	Project  string
	ParentID int // zero when the item has no parent
}
