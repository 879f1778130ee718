// Package export writes an aggregated daily report to an xlsx workbook: a
// summary sheet plus one sheet per project.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quacklibs/azdo/internal/activity"
	"github.com/quacklibs/azdo/internal/render"
)

type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export saves the report to filename. Summaries must come from
// activity.Aggregate so every sheet reflects the rendered report.
func (e *ExcelExporter) Export(report *activity.Report, summaries []activity.ProjectSummary, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.summarySheet(f, report, summaries); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	for _, summary := range summaries {
		if err := e.projectSheet(f, summary); err != nil {
			return fmt.Errorf("failed to create sheet for %s: %w", summary.Project, err)
		}
	}

	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}
	return nil
}

func (e *ExcelExporter) summarySheet(f *excelize.File, report *activity.Report, summaries []activity.ProjectSummary) error {
	const sheetName = "Summary"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Daily report %s to %s for %s",
		report.From.Format("02-01-2006"), report.Till.Format("02-01-2006"), report.ForUser))

	headers := []string{"Project", "Work Items Changed", "Change Events", "Commits"}
	style := headerStyle(f)
	for col, header := range headers {
		cell := cellName(col+1, 3)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)
	}

	for i, summary := range summaries {
		row := i + 4
		items, events := 0, 0
		for _, group := range summary.Groups {
			items += len(group.Items)
			for _, item := range group.Items {
				events += len(item.Changes)
			}
		}

		f.SetCellValue(sheetName, cellName(1, row), summary.Project)
		f.SetCellValue(sheetName, cellName(2, row), items)
		f.SetCellValue(sheetName, cellName(3, row), events)
		f.SetCellValue(sheetName, cellName(4, row), len(summary.Commits))
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "D", 20)
	return nil
}

func (e *ExcelExporter) projectSheet(f *excelize.File, summary activity.ProjectSummary) error {
	sheetName := sanitizeSheetName(summary.Project)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headers := []string{"Parent", "Work Item", "Change", "Detail"}
	style := headerStyle(f)
	for col, header := range headers {
		cell := cellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)
	}

	row := 2
	for _, group := range summary.Groups {
		parent := fmt.Sprintf("%d %s", group.ParentID, group.ParentTitle)
		for _, item := range group.Items {
			label := fmt.Sprintf("%d %s", item.ID, item.Title)
			for _, change := range item.Changes {
				f.SetCellValue(sheetName, cellName(1, row), parent)
				f.SetCellValue(sheetName, cellName(2, row), label)
				f.SetCellValue(sheetName, cellName(3, row), change.Category())
				f.SetCellValue(sheetName, cellName(4, row), changeDetail(change))
				row++
			}
		}
	}

	for _, commit := range summary.Commits {
		f.SetCellValue(sheetName, cellName(1, row), "")
		f.SetCellValue(sheetName, cellName(2, row), commit.ID)
		f.SetCellValue(sheetName, cellName(3, row), "Commit")
		f.SetCellValue(sheetName, cellName(4, row), fmt.Sprintf("%s %s %s",
			commit.Timestamp.Format("02-01-2006 15:04"), commit.Author, commit.Message))
		row++
	}

	f.SetColWidth(sheetName, "A", "B", 40)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "D", 60)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return nil
}

// changeDetail strips comment HTML so spreadsheet cells stay readable.
func changeDetail(change activity.ChangeEvent) string {
	if c, ok := change.(activity.CommentAdded); ok {
		c.Body = render.StripHTML(c.Body)
		return c.Text()
	}
	return change.Text()
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return style
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func sanitizeSheetName(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", "?", "", "*", "", "[", "(", "]", ")")
	name = replacer.Replace(name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
