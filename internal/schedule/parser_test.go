package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	header = "REPUBLIC UNIVERSITY CERTIFICATE OF REGISTRATION CODE DESCRIPTION SECTION SCHEDULE ROOM UNITS"
	footer = "TOTAL UNITS 4.0 ASSESSMENT OF FEES"
)

func document(rows string) string {
	return header + " " + rows + " " + footer
}

func TestParse_SingleCourse(t *testing.T) {
	text := "... UNITS CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0 TOTAL UNITS ..."

	got, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, got.Courses, 1)

	course := got.Courses[0]
	assert.Equal(t, "CS101", course.Code)
	assert.Equal(t, "INTRO TO COMPUTING", course.Name)
	assert.Equal(t, "A", course.Section)
	assert.Equal(t, "3.0", course.Units)
	assert.Equal(t, []MeetingEntry{
		{Day: "M", TimeRange: "7:30-9:00AM", Room: "Room 301"},
		{Day: "W", TimeRange: "7:30-9:00AM", Room: "Room 301"},
		{Day: "F", TimeRange: "7:30-9:00AM", Room: "Room 301"},
	}, course.Schedules)
}

func TestParse_MergesLectureAndLab(t *testing.T) {
	text := document("CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0 " +
		"CS101 INTRO TO COMPUTING A T 1:00-4:00PM ROOM 305 1.0")

	got, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, got.Courses, 1, "rows sharing code and section must merge")

	course := got.Courses[0]
	assert.Equal(t, "3.0", course.Units, "the first row's units are kept")
	require.Len(t, course.Schedules, 4)

	days := make([]string, 0, len(course.Schedules))
	for _, m := range course.Schedules {
		days = append(days, m.Day)
	}
	assert.Equal(t, []string{"M", "W", "F", "T"}, days)
	assert.Equal(t, MeetingEntry{Day: "T", TimeRange: "1:00-4:00PM", Room: "Room 305"}, course.Schedules[3])
}

func TestParse_MergeKeepsFirstSeenPosition(t *testing.T) {
	text := document("CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0 " +
		"MATH1 CALCULUS I B TTH 9:00-10:30AM ROOM 210 3.0 " +
		"CS101 INTRO TO COMPUTING A S 8:00-11:00AM ROOM 305 1.0 " +
		"CS101 INTRO TO COMPUTING B MWF 1:00-2:00PM ROOM 301 3.0")

	got, err := Parse(text)
	require.NoError(t, err)

	keys := make([]string, 0, len(got.Courses))
	for _, c := range got.Courses {
		keys = append(keys, c.Key().String())
	}
	assert.Equal(t, []string{"CS101-A", "MATH1-B", "CS101-B"}, keys)

	cs, ok := got.Find("CS101", "A")
	require.True(t, ok)
	assert.Len(t, cs.Schedules, 4)

	math, ok := got.Find("MATH1", "B")
	require.True(t, ok)
	assert.Equal(t, "CALCULUS I", math.Name)
	assert.Equal(t, []MeetingEntry{
		{Day: "T", TimeRange: "9:00-10:30AM", Room: "Room 210"},
		{Day: "TH", TimeRange: "9:00-10:30AM", Room: "Room 210"},
	}, math.Schedules)
}

func TestParse_VirtualRoom(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{name: "virtual room token", row: "IT202 WEB DESIGN C TTH 1:00-2:30PM VR2 3.0", want: "VR2"},
		{name: "virtual room after keyword", row: "IT202 WEB DESIGN C TTH 1:00-2:30PM ROOM VR2 3.0", want: "VR2"},
		{name: "split virtual room", row: "IT202 WEB DESIGN C TTH 1:00-2:30PM VR 2 3.0", want: "VR 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(document(tt.row))
			require.NoError(t, err)
			require.Len(t, got.Courses, 1)
			require.Len(t, got.Courses[0].Schedules, 2)
			for _, m := range got.Courses[0].Schedules {
				assert.Equal(t, tt.want, m.Room)
			}
		})
	}
}

func TestParse_MissingMarkers(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty text", text: ""},
		{name: "no markers", text: "CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0"},
		{name: "no footer", text: "CODE UNITS CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0"},
		{name: "footer only", text: "CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0 TOTAL UNITS 3.0"},
		{name: "footer before header", text: "TOTAL UNITS 3.0 CODE UNITS CS101 INTRO A MWF 7:30-9:00AM ROOM 301 3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report, err := NewParser(nil).ParseWithReport(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDocument))
			assert.False(t, errors.Is(err, ErrUnreadableDocument))
			assert.Nil(t, got, "no partial output on a malformed document")
			assert.Nil(t, report)
		})
	}
}

func TestParse_CourseWithoutMeetings(t *testing.T) {
	got, report, err := NewParser(nil).ParseWithReport(document("PE1 PHYSICAL EDUCATION A 2.0"))
	require.NoError(t, err)
	require.Len(t, got.Courses, 1)

	course := got.Courses[0]
	assert.Equal(t, "PE1", course.Code)
	assert.Equal(t, "PHYSICAL EDUCATION", course.Name)
	assert.Equal(t, "A", course.Section)
	assert.NotNil(t, course.Schedules)
	assert.Empty(t, course.Schedules)

	assert.Equal(t, 1, report.MatchedRows)
	assert.Empty(t, report.SkippedRows)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schedules":[]`)
}

func TestParse_SkipsNoiseRows(t *testing.T) {
	text := document("PAGE 1 OF 2.0 " +
		"CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0 " +
		"printed by registrar")

	got, report, err := NewParser(nil).ParseWithReport(text)
	require.NoError(t, err)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, "CS101", got.Courses[0].Code)

	assert.Equal(t, 3, report.CandidateRows)
	assert.Equal(t, 1, report.MatchedRows)
	require.Len(t, report.SkippedRows, 2)
	assert.Equal(t, 0, report.SkippedRows[0].Index)
	assert.Equal(t, "PAGE 1 OF 2.0", report.SkippedRows[0].Text)
	assert.Equal(t, 2, report.SkippedRows[1].Index)
	assert.Equal(t, "printed by registrar", report.SkippedRows[1].Text)
}

func TestParse_SkippedRowsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.Out = &buf
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.JSONFormatter{})

	_, err := NewParser(log).Parse(document("lowercase noise 1.0"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "skipping schedule row")
	assert.Contains(t, buf.String(), "lowercase noise 1.0")
}

func TestParse_LeadingNoiseBeforeCode(t *testing.T) {
	got, err := Parse(document("continued: CS102 DATA STRUCTURES B MW 10:00-11:30AM ROOM 401 3.0"))
	require.NoError(t, err)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, "CS102", got.Courses[0].Code)
	assert.Equal(t, "DATA STRUCTURES", got.Courses[0].Name)
	assert.Equal(t, "B", got.Courses[0].Section)
}

func TestParse_MultipleMeetingBlocksInOneRow(t *testing.T) {
	got, err := Parse(document("CHEM1 GENERAL CHEMISTRY L2 MW 8:00-9:00AM ROOM 110 F 1:00-4:00PM ROOM 120/LAB 4.0"))
	require.NoError(t, err)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, []MeetingEntry{
		{Day: "M", TimeRange: "8:00-9:00AM", Room: "Room 110"},
		{Day: "W", TimeRange: "8:00-9:00AM", Room: "Room 110"},
		{Day: "F", TimeRange: "1:00-4:00PM", Room: "Room 120"},
	}, got.Courses[0].Schedules)
}

func TestParse_SplitTimeTokens(t *testing.T) {
	got, err := Parse(document("ENG1 PURPOSIVE COMMUNICATION A SU 7:30 - 9:00 AM Room 12 3.0"))
	require.NoError(t, err)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, []MeetingEntry{
		{Day: "SU", TimeRange: "7:30 - 9:00 AM", Room: "Room 12"},
	}, got.Courses[0].Schedules)
}

func TestParse_NamePunctuation(t *testing.T) {
	got, err := Parse(document("HIST2 RIZAL'S LIFE & WORKS ST. A F 9:00-12:00PM ROOM 5 3.0"))
	require.NoError(t, err)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, "RIZAL'S LIFE & WORKS ST.", got.Courses[0].Name)
	assert.Equal(t, "A", got.Courses[0].Section)
}

func TestParse_EmptyTable(t *testing.T) {
	got, err := Parse("CODE UNITS TOTAL UNITS 0")
	require.NoError(t, err)
	assert.NotNil(t, got.Courses)
	assert.Empty(t, got.Courses)
}

func TestParse_Deterministic(t *testing.T) {
	text := document("CS101 INTRO TO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0 " +
		"IT202 WEB DESIGN C TTH 1:00-2:30PM VR2 3.0")

	first, err := Parse(text)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRelevantText(t *testing.T) {
	got, err := RelevantText("HEADER ROOM UNITS  CS101 A 3.0  TOTAL UNITS 3.0")
	require.NoError(t, err)
	assert.Equal(t, "CS101 A 3.0", got)
}

func TestParsedSchedule_MeetingCount(t *testing.T) {
	var nilSchedule *ParsedSchedule
	assert.Equal(t, 0, nilSchedule.MeetingCount())

	s := &ParsedSchedule{Courses: []CourseEntry{
		{Schedules: make([]MeetingEntry, 3)},
		{Schedules: make([]MeetingEntry, 1)},
	}}
	assert.Equal(t, 4, s.MeetingCount())
}

func TestReport_Complete(t *testing.T) {
	var nilReport *Report
	assert.True(t, nilReport.Complete())
	assert.True(t, (&Report{CandidateRows: 2}).Complete())
	assert.False(t, (&Report{FailedPages: []int{3}}).Complete())
}
