package report

import (
	"fmt"
	"io"
	"strings"

	"attendance.service/internal/core/model"
	"attendance.service/internal/core/worktime"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Attendance"

const headerRow = 3

var columns = []string{
	"Day", "Weekday", "Check-in", "Check-out", "Check-in map", "Check-out map",
	"Actual (h)", "Overtime (h)", "Night overtime (h)",
}

// Header is the identifying information printed above the table.
type Header struct {
	UserName string
}

// WriteXLSX renders r as a single-sheet workbook.
func WriteXLSX(w io.Writer, h Header, r MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	name := h.UserName
	if name == "" {
		name = r.UserID
	}
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Attendance %d-%02d", r.Year, int(r.Month)))
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetCellValue(sheetName, "A2", "Employee:")
	f.SetCellValue(sheetName, "B2", name)

	for i, c := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheetName, cell, c)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	f.SetCellStyle(sheetName, cellName(1, headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), headerStyle)

	row := headerRow + 1
	for _, d := range r.Days {
		values := []any{
			d.Day,
			d.WeekdayLabel,
			punchText(d.DaySlot, model.KindCheckIn),
			punchText(d.DaySlot, model.KindCheckOut),
			mapLink(d.CheckIn),
			mapLink(d.CheckOut),
			hoursCell(d.WorkTime.Actual),
			hoursCell(d.WorkTime.NormalOvertime),
			hoursCell(d.WorkTime.NightOvertime),
		}
		for i, v := range values {
			f.SetCellValue(sheetName, cellName(i+1, row), v)
		}
		if d.CheckIn != nil {
			f.SetCellHyperLink(sheetName, cellName(5, row), d.CheckIn.MapURL, "External")
		}
		if d.CheckOut != nil {
			f.SetCellHyperLink(sheetName, cellName(6, row), d.CheckOut.MapURL, "External")
		}
		row++
	}
	f.SetCellStyle(sheetName, cellName(3, headerRow+1), cellName(4, row-1), wrapStyle)

	f.SetCellValue(sheetName, cellName(1, row), "Total")
	f.SetCellValue(sheetName, cellName(2, row), fmt.Sprintf("%d days", r.WorkedDays))
	f.SetCellValue(sheetName, cellName(7, row), hoursCell(r.Totals.Actual))
	f.SetCellValue(sheetName, cellName(8, row), hoursCell(r.Totals.NormalOvertime))
	f.SetCellValue(sheetName, cellName(9, row), hoursCell(r.Totals.NightOvertime))

	f.SetColWidth(sheetName, "C", "D", 14)
	f.SetColWidth(sheetName, "E", "F", 18)
	f.SetColWidth(sheetName, "G", "I", 16)

	return f.Write(w)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// punchText lists every punch of kind on the day, one per line, so that
// repeated check-ins stay visible next to the first/last one used for totals.
func punchText(d model.DaySlot, kind model.PunchKind) string {
	var lines []string
	for _, ev := range d.Events {
		if ev.Kind == kind {
			lines = append(lines, worktime.FormatClock(ev.Timestamp))
		}
	}
	return strings.Join(lines, "\n")
}

func mapLink(s *model.Stamp) string {
	if s == nil {
		return ""
	}
	return s.MapURL
}

func hoursCell(h worktime.Hours) any {
	if v, ok := h.Value(); ok {
		return v
	}
	return ""
}
