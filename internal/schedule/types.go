package schedule

// MeetingEntry is one scheduled occurrence of a course section
type MeetingEntry struct {
	Day       string `json:"day"`        // one of M, T, W, TH, F, S, SU
	TimeRange string `json:"time_range"` // verbatim, e.g. "7:30-9:00AM"
	Room      string `json:"room"`       // "Room 301" or a virtual room code such as "VR2"
}

// CourseEntry is a course section with every meeting found for it
type CourseEntry struct {
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Section   string         `json:"section"`
	Units     string         `json:"units"` // kept as written ("3.0"), never coerced
	Schedules []MeetingEntry `json:"schedules"`
}

// Key returns the identity of the course section
func (c CourseEntry) Key() CourseKey {
	return CourseKey{Code: c.Code, Section: c.Section}
}

// CourseKey identifies a course section. Rows sharing a key are merged.
type CourseKey struct {
	Code    string
	Section string
}

// String returns the key as "CODE-SECTION"
func (k CourseKey) String() string {
	return k.Code + "-" + k.Section
}

// ParsedSchedule is the result of parsing one registration document.
// Courses are in first-seen order and no two share a CourseKey.
type ParsedSchedule struct {
	Courses []CourseEntry `json:"courses"`
}

// MeetingCount returns the total number of meetings across all courses
func (p *ParsedSchedule) MeetingCount() int {
	if p == nil {
		return 0
	}
	total := 0
	for _, c := range p.Courses {
		total += len(c.Schedules)
	}
	return total
}

// Find returns the course with the given code and section
func (p *ParsedSchedule) Find(code, section string) (CourseEntry, bool) {
	if p == nil {
		return CourseEntry{}, false
	}
	for _, c := range p.Courses {
		if c.Code == code && c.Section == section {
			return c, true
		}
	}
	return CourseEntry{}, false
}

// SkippedRow is a candidate row that did not match the course record grammar
type SkippedRow struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Report carries per-parse diagnostics
type Report struct {
	CandidateRows int          `json:"candidate_rows"`
	MatchedRows   int          `json:"matched_rows"`
	MergedRows    int          `json:"merged_rows"`
	SkippedRows   []SkippedRow `json:"skipped_rows,omitempty"`
	// FailedPages lists source pages whose text was unavailable, so rows on
	// them are missing from the schedule
	FailedPages []int `json:"failed_pages,omitempty"`
}

// Complete reports whether every source page contributed text
func (r *Report) Complete() bool {
	return r == nil || len(r.FailedPages) == 0
}
