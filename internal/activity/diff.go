package activity

import (
	"github.com/quacklibs/azdo/internal/timerange"
)

// DiffChanges walks a work item's comment list and revision history and
// returns the change events that fall inside the window.
//
// Comment events come first, then revision-derived events in ascending
// revision order. The report deliberately groups comments ahead of state
// transitions instead of interleaving them chronologically.
//
// Revisions must be ordered ascending by ChangedAt. State tracking runs over
// the whole history; the window only gates which events are emitted, so a
// state reached before the window never shows up as an in-window transition.
func DiffChanges(revisions []Revision, comments []Comment, window timerange.Range) []ChangeEvent {
	var events []ChangeEvent

	for _, c := range comments {
		if window.ContainsDay(c.PostedAt) {
			events = append(events, CommentAdded{At: c.PostedAt, Author: c.Author, Body: c.Body})
		}
	}

	previousState := ""
	for i, rev := range revisions {
		inWindow := window.ContainsDay(rev.ChangedAt)

		if i == 0 {
			if inWindow {
				events = append(events, Created{At: rev.ChangedAt, State: rev.State})
			}
			// baseline, not a transition
			previousState = rev.State
			continue
		}

		if inWindow && rev.State != previousState {
			events = append(events, StateChanged{At: rev.ChangedAt, FromState: previousState, ToState: rev.State})
		}
		previousState = rev.State
	}

	return events
}
