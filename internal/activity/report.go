package activity

import (
	"sync"
	"time"
)

// WorkItemActivity is one work item together with the change events found on
// it during the window. It belongs to the project entry that carries it.
type WorkItemActivity struct {
	ID          int
	Title       string
	Project     string
	ParentID    int
	ParentTitle string
	Changes     []ChangeEvent
}

// HasChanges reports whether any change events were found on the item.
func (w *WorkItemActivity) HasChanges() bool {
	return len(w.Changes) > 0
}

// ProjectEntry bundles one project's work-item and commit activity. A single
// fan-out worker owns the entry while it is being filled.
type ProjectEntry struct {
	Project   string
	WorkItems []*WorkItemActivity
	Commits   []Commit
}

// HasActivity reports whether the entry carries anything worth rendering.
func (e ProjectEntry) HasActivity() bool {
	for _, wi := range e.WorkItems {
		if wi.HasChanges() {
			return true
		}
	}
	return len(e.Commits) > 0
}

// Report is the result of one fan-out run. Entries are appended by
// concurrent workers, so AddEntry is guarded; everything else happens after
// the run has finished. A report lives for a single invocation.
type Report struct {
	From    time.Time
	Till    time.Time
	ForUser string

	mu      sync.Mutex
	entries []ProjectEntry
}

func NewReport(from, till time.Time, forUser string) *Report {
	return &Report{From: from, Till: till, ForUser: forUser}
}

// AddEntry is safe for concurrent use.
func (r *Report) AddEntry(e ProjectEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a snapshot of the appended entries. Order follows worker
// completion, not project order; use Aggregate for stable output.
func (r *Report) Entries() []ProjectEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ProjectEntry, len(r.entries))
	copy(out, r.entries)
	return out
}
