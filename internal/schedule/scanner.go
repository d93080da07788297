package schedule

import "strings"

// SplitRows segments the table body into candidate rows. Rows carry no
// delimiter of their own once whitespace is collapsed, so a row ends right
// after its units literal: a digit run followed by ".0". Text left over after
// the last units literal becomes a final candidate row.
func SplitRows(text string) []string {
	var rows []string
	start := 0

	for i := 0; i < len(text); {
		if !isDigit(text[i]) {
			i++
			continue
		}

		j := i
		for j < len(text) && isDigit(text[j]) {
			j++
		}

		if j+1 < len(text) && text[j] == '.' && text[j+1] == '0' {
			end := j + 2
			if row := strings.TrimSpace(text[start:end]); row != "" {
				rows = append(rows, row)
			}
			start = end
			i = end
			continue
		}
		i = j
	}

	if tail := strings.TrimSpace(text[start:]); tail != "" {
		rows = append(rows, tail)
	}
	return rows
}

// meeting is one day run with its time range and room, before day expansion
type meeting struct {
	days      []string
	timeRange string
	rawRoom   string
}

// record is one course row as read from the table
type record struct {
	code     string
	name     string
	section  string
	units    string
	meetings []meeting
}

// scanRecord reads a course row:
//
//	code name... section (dayrun time... room)* units
//
// The units literal must be the last token. The name is as short as possible:
// the first section position whose remainder splits exactly into meetings
// wins, and the name must contain a letter. If no record begins at the first
// token, later tokens are tried so that leading noise does not lose the row.
func scanRecord(row string) (record, string) {
	tokens := strings.Fields(row)
	if len(tokens) < 4 {
		return record{}, "too few tokens for a course row"
	}

	last := len(tokens) - 1
	if !isUnitsToken(tokens[last]) {
		return record{}, "row does not end with a units value"
	}

	// meetingsTo[i] reports whether tokens[i:last] is a whole number of meetings
	meetingsTo := make([]bool, last+1)
	meetingsTo[last] = true
	for i := last - 1; i >= 0; i-- {
		if _, next, ok := scanMeeting(tokens, i, last); ok {
			meetingsTo[i] = meetingsTo[next]
		}
	}

	for start := 0; start+3 <= last; start++ {
		if !isCodeToken(tokens[start]) {
			continue
		}
		for sec := start + 2; sec < last; sec++ {
			if !isNameToken(tokens[sec-1]) {
				break
			}
			if !isSectionToken(tokens[sec]) || !meetingsTo[sec+1] {
				continue
			}
			name := strings.Join(tokens[start+1:sec], " ")
			if !hasLetter(name) {
				continue
			}

			rec := record{
				code:    tokens[start],
				name:    name,
				section: tokens[sec],
				units:   tokens[last],
			}
			for i := sec + 1; i < last; {
				m, next, _ := scanMeeting(tokens, i, last)
				rec.meetings = append(rec.meetings, m)
				i = next
			}
			return rec, ""
		}
	}

	return record{}, "no course record found"
}

// scanMeeting reads one meeting starting at tokens[i], never reading at or
// beyond limit. It returns the index just past the meeting.
func scanMeeting(tokens []string, i, limit int) (meeting, int, bool) {
	if i >= limit {
		return meeting{}, i, false
	}

	days, ok := ExpandDays(tokens[i])
	if !ok {
		return meeting{}, i, false
	}

	j := i + 1
	if j >= limit || !isDigit(tokens[j][0]) {
		return meeting{}, i, false
	}
	for j < limit && isTimeToken(tokens[j]) {
		j++
	}
	if j == i+1 {
		return meeting{}, i, false
	}

	raw, next, ok := scanRoom(tokens[:limit], j)
	if !ok {
		return meeting{}, i, false
	}

	return meeting{
		days:      days,
		timeRange: strings.Join(tokens[i+1:j], " "),
		rawRoom:   raw,
	}, next, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func hasLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		if isUpper(s[i]) {
			return true
		}
	}
	return false
}

func isCodeToken(tok string) bool {
	return isSectionToken(tok) && hasLetter(tok)
}

func isSectionToken(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if !isUpper(tok[i]) && !isDigit(tok[i]) {
			return false
		}
	}
	return true
}

func isNameToken(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if isUpper(c) || isDigit(c) {
			continue
		}
		switch c {
		case '.', '\'', '&':
		default:
			return false
		}
	}
	return true
}

func isTimeToken(tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if isDigit(c) {
			continue
		}
		switch c {
		case ':', '-', 'A', 'P', 'M':
		default:
			return false
		}
	}
	return true
}

func isUnitsToken(tok string) bool {
	hasDigit := false
	for i := 0; i < len(tok); i++ {
		switch {
		case isDigit(tok[i]):
			hasDigit = true
		case tok[i] == '.':
		default:
			return false
		}
	}
	return hasDigit
}
