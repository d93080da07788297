package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/schedify/internal/schedule"
)

const (
	CoursesSheet  = "Courses"
	MeetingsSheet = "Meetings"
)

var (
	courseHeaders  = []string{"Code", "Name", "Section", "Units", "Meetings"}
	meetingHeaders = []string{"Code", "Section", "Day", "Time", "Room"}
)

type columnWidth struct {
	sheet    string
	from, to string
	width    float64
}

var columnWidths = []columnWidth{
	{CoursesSheet, "A", "A", 12},
	{CoursesSheet, "B", "B", 40},
	{CoursesSheet, "C", "E", 10},
	{MeetingsSheet, "A", "C", 10},
	{MeetingsSheet, "D", "D", 18},
	{MeetingsSheet, "E", "E", 14},
}

// DayOrder returns the weekday position of a day code. Unknown codes sort last.
func DayOrder(day string) int {
	if i := schedule.DayIndex(day); i >= 0 {
		return i
	}
	return len(schedule.Days)
}

// WriteXLSX renders s as a workbook with a Courses sheet and a Meetings sheet
func WriteXLSX(s *schedule.ParsedSchedule) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("schedule cannot be nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CoursesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(MeetingsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err := writeRow(f, CoursesSheet, 1, toAny(courseHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, MeetingsSheet, 1, toAny(meetingHeaders)); err != nil {
		return nil, err
	}

	courseRow, meetingRow := 2, 2
	for _, c := range s.Courses {
		if err := writeRow(f, CoursesSheet, courseRow, []any{c.Code, c.Name, c.Section, c.Units, len(c.Schedules)}); err != nil {
			return nil, err
		}
		courseRow++

		for _, m := range weekly(c.Schedules) {
			if err := writeRow(f, MeetingsSheet, meetingRow, []any{c.Code, c.Section, m.Day, m.TimeRange, m.Room}); err != nil {
				return nil, err
			}
			meetingRow++
		}
	}

	if err := setColumnWidths(f, columnWidths); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveXLSX writes the workbook for s to dir/<base>.xlsx and returns the path.
// base is reduced to a plain file name.
func SaveXLSX(s *schedule.ParsedSchedule, dir, base string) (string, error) {
	base = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid workbook name")
	}

	data, err := WriteXLSX(s)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, base+".xlsx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	return path, nil
}

// weekly returns meetings ordered by weekday, keeping document order within a day
func weekly(meetings []schedule.MeetingEntry) []schedule.MeetingEntry {
	sorted := append([]schedule.MeetingEntry(nil), meetings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return DayOrder(sorted[i].Day) < DayOrder(sorted[j].Day)
	})
	return sorted
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func setColumnWidths(f *excelize.File, widths []columnWidth) error {
	for _, cw := range widths {
		if err := f.SetColWidth(cw.sheet, cw.from, cw.to, cw.width); err != nil {
			return fmt.Errorf("set %s!%s:%s width: %w", cw.sheet, cw.from, cw.to, err)
		}
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
