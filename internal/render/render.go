// Package render writes the aggregated report to the console as ASCII trees.
// Presentation only; every filtering and grouping decision happens in the
// activity package.
package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/quacklibs/azdo/internal/activity"
)

type Renderer struct {
	out   io.Writer
	title cases.Caser
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out, title: cases.Title(language.English)}
}

// Report writes the full daily report: header, then one section per project
// with the work-item trees and the commit tree.
func (r *Renderer) Report(report *activity.Report, summaries []activity.ProjectSummary) {
	fmt.Fprintf(r.out, "\nDaily report for changes from %s to %s for %s\n",
		report.From.Format("02-01-2006"), report.Till.Format("02-01-2006"), report.ForUser)

	for _, summary := range summaries {
		fmt.Fprintf(r.out, "\n%s\n", r.title.String(summary.Project))

		for _, group := range summary.Groups {
			fmt.Fprintln(r.out)
			r.tree(fmt.Sprintf("%d %s", group.ParentID, group.ParentTitle), workItemNodes(group))
		}

		if len(summary.Commits) > 0 {
			fmt.Fprintln(r.out)
			r.tree("Commits", commitNodes(summary.Commits))
		}
	}
}

// NoActivity writes the distinct empty-report message.
func (r *Renderer) NoActivity() {
	fmt.Fprintln(r.out, "No changes found!")
}

// node is one labeled tree entry with optional children.
type node struct {
	label    string
	children []node
}

func workItemNodes(group activity.ParentGroup) []node {
	nodes := make([]node, 0, len(group.Items))
	for _, item := range group.Items {
		n := node{label: fmt.Sprintf("%d %s", item.ID, item.Title)}
		for _, change := range item.Changes {
			n.children = append(n.children, node{label: change.Category() + " - " + eventText(change)})
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// eventText strips comment HTML at display time; other events pass through.
func eventText(change activity.ChangeEvent) string {
	if c, ok := change.(activity.CommentAdded); ok {
		stripped := c
		stripped.Body = StripHTML(c.Body)
		return singleLine(stripped.Text())
	}
	return change.Text()
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func commitNodes(commits []activity.Commit) []node {
	nodes := make([]node, 0, len(commits))
	for _, c := range commits {
		nodes = append(nodes, node{
			label: fmt.Sprintf("%s commit %s %s", c.Timestamp.Format("02-01-2006 15:04"), c.Author, singleLine(c.Message)),
		})
	}
	return nodes
}

// tree prints an ASCII guide tree, two levels deep at most.
func (r *Renderer) tree(root string, nodes []node) {
	fmt.Fprintln(r.out, root)
	for i, n := range nodes {
		last := i == len(nodes)-1
		fmt.Fprintf(r.out, "%s%s\n", guide(last), n.label)

		childIndent := "|   "
		if last {
			childIndent = "    "
		}
		for j, child := range n.children {
			fmt.Fprintf(r.out, "%s%s%s\n", childIndent, guide(j == len(n.children)-1), child.label)
		}
	}
}

func guide(last bool) string {
	if last {
		return "\\-- "
	}
	return "+-- "
}

// Table writes a simple two-column key/value table, used by configure read.
func (r *Renderer) Table(rows [][2]string) {
	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	for _, row := range rows {
		fmt.Fprintf(r.out, "%-*s  %s\n", width, row[0], row[1])
	}
}
