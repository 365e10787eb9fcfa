package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MonumentLabsRVA/ProjectDaylight-sub000/internal/core/domain"
)

const sheetName = "Timeline"

var columns = []string{
	"Date (UTC)", "Time (UTC)", "Precision", "Type", "Description",
	"Location", "Participants", "Child Involved", "Welfare Impact", "Patterns",
}

// Exporter renders a user's events as a timeline workbook ordered by
// occurrence, one row per event.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) WriteTimeline(events []domain.Event, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create timeline sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, ev := range events {
		row := strconv.Itoa(i + 2)
		values := []any{
			ev.OccurredAt.Format("2006-01-02"),
			timeCell(ev),
			string(ev.Precision),
			string(ev.EventType),
			ev.Description,
			ev.Location,
			participantsCell(ev.Participants),
			yesNo(ev.ChildInvolved),
			welfareCell(ev.WelfareImpact),
			strings.Join(ev.Patterns, "; "),
		}
		for j, v := range values {
			name, err := excelize.ColumnNumberToName(j + 1)
			if err != nil {
				return fmt.Errorf("column name: %w", err)
			}
			if err := f.SetCellValue(sheetName, name+row, v); err != nil {
				return fmt.Errorf("write event row: %w", err)
			}
		}
	}

	widths := []float64{12, 10, 12, 18, 60, 20, 30, 12, 24, 30}
	for i, width := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// timeCell leaves the time blank for day-precision events; a midnight
// time on a day-only event reads as a false claim in a court exhibit.
func timeCell(ev domain.Event) string {
	if ev.Precision == domain.PrecisionDay || ev.Precision == domain.PrecisionUnknown {
		return ""
	}
	return ev.OccurredAt.Format("15:04")
}

func participantsCell(p domain.Participants) string {
	parts := make([]string, 0, 3)
	if len(p.Primary) > 0 {
		parts = append(parts, strings.Join(p.Primary, ", "))
	}
	if len(p.Witnesses) > 0 {
		parts = append(parts, "witnesses: "+strings.Join(p.Witnesses, ", "))
	}
	if len(p.Professionals) > 0 {
		parts = append(parts, "professionals: "+strings.Join(p.Professionals, ", "))
	}
	return strings.Join(parts, "; ")
}

func welfareCell(w *domain.WelfareImpact) string {
	if w == nil {
		return ""
	}
	out := string(w.Direction)
	if w.Category != "" {
		out += " " + w.Category
	}
	if w.Severity != "" {
		out += " (" + string(w.Severity) + ")"
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
