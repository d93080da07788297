package schedule

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/schedify/internal/logging"
)

const (
	headerMarker = "UNITS"
	footerMarker = "TOTAL UNITS"
)

// Parser turns normalized registration text into a ParsedSchedule.
// It holds no state between calls and is safe for concurrent use.
type Parser struct {
	logger logrus.FieldLogger
}

// NewParser creates a parser that reports skipped rows to logger.
// A nil logger discards diagnostics.
func NewParser(logger logrus.FieldLogger) *Parser {
	return &Parser{logger: logging.OrDiscard(logger)}
}

var defaultParser = NewParser(nil)

// Parse parses normalized text with a parser that discards diagnostics
func Parse(text string) (*ParsedSchedule, error) {
	return defaultParser.Parse(text)
}

// Parse parses normalized text into courses
func (p *Parser) Parse(text string) (*ParsedSchedule, error) {
	s, _, err := p.ParseWithReport(text)
	return s, err
}

// ParseWithReport parses normalized text and also returns row diagnostics.
// Only a missing or misordered table marker is an error; rows that do not
// read as courses are skipped and listed in the report.
func (p *Parser) ParseWithReport(text string) (*ParsedSchedule, *Report, error) {
	body, err := RelevantText(text)
	if err != nil {
		return nil, nil, err
	}

	rows := SplitRows(body)
	report := &Report{CandidateRows: len(rows)}
	table := newMergeTable()

	for i, row := range rows {
		rec, reason := scanRecord(row)
		if reason != "" {
			report.SkippedRows = append(report.SkippedRows, SkippedRow{Index: i, Text: row, Reason: reason})
			p.logger.WithFields(logrus.Fields{
				"row":    i,
				"reason": reason,
				"text":   row,
			}).Debug("skipping schedule row")
			continue
		}

		report.MatchedRows++
		if table.add(rec) {
			report.MergedRows++
			p.logger.WithFields(logrus.Fields{
				"row":     i,
				"code":    rec.code,
				"section": rec.section,
			}).Debug("merged row into existing course")
		}
	}

	p.logger.WithFields(logrus.Fields{
		"candidates": report.CandidateRows,
		"matched":    report.MatchedRows,
		"merged":     report.MergedRows,
		"skipped":    len(report.SkippedRows),
		"courses":    len(table.courses),
	}).Debug("parsed schedule")

	return &ParsedSchedule{Courses: table.courses}, report, nil
}

// RelevantText returns the course table body: the text after the first
// "UNITS" header marker and before the first "TOTAL UNITS" that follows it.
func RelevantText(text string) (string, error) {
	start := strings.Index(text, headerMarker)
	if start < 0 {
		return "", NewMalformedError(`missing "UNITS" table header`)
	}
	start += len(headerMarker)

	end := strings.Index(text[start:], footerMarker)
	if end < 0 {
		return "", NewMalformedError(`missing "TOTAL UNITS" after the table header`)
	}

	return strings.TrimSpace(text[start : start+end]), nil
}

// mergeTable accumulates courses by (code, section) in first-seen order
type mergeTable struct {
	index   map[CourseKey]int
	courses []CourseEntry
}

func newMergeTable() *mergeTable {
	return &mergeTable{index: make(map[CourseKey]int), courses: []CourseEntry{}}
}

// add stores rec, appending its meetings to an earlier course with the same
// key if there is one. It reports whether the row was merged.
func (t *mergeTable) add(rec record) bool {
	entries := meetingEntries(rec.meetings)
	key := CourseKey{Code: rec.code, Section: rec.section}

	if i, ok := t.index[key]; ok {
		t.courses[i].Schedules = append(t.courses[i].Schedules, entries...)
		return true
	}

	t.index[key] = len(t.courses)
	t.courses = append(t.courses, CourseEntry{
		Code:      rec.code,
		Name:      rec.name,
		Section:   rec.section,
		Units:     rec.units,
		Schedules: entries,
	})
	return false
}

// meetingEntries expands each day run into one entry per day
func meetingEntries(meetings []meeting) []MeetingEntry {
	entries := []MeetingEntry{}
	for _, m := range meetings {
		room := FormatRoom(m.rawRoom)
		for _, day := range m.days {
			entries = append(entries, MeetingEntry{
				Day:       day,
				TimeRange: m.timeRange,
				Room:      room,
			})
		}
	}
	return entries
}
