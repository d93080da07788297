package schedule

// Days lists the day codes a meeting can carry, in calendar order
var Days = []string{"M", "T", "W", "TH", "F", "S", "SU"}

// DayIndex returns the calendar position of a day code, or -1 if unknown
func DayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

// ExpandDays splits a compound day run such as "MWF" or "TTH" into single
// day codes. The digraphs TH and SU are matched before single letters, so
// "TTH" is T, TH and never T, T, H. The second result is false if any part of
// the run is not a day code; an empty run is never valid.
func ExpandDays(run string) ([]string, bool) {
	if run == "" {
		return nil, false
	}

	days := make([]string, 0, len(run))
	for i := 0; i < len(run); {
		if i+1 < len(run) {
			switch run[i : i+2] {
			case "TH", "SU":
				days = append(days, run[i:i+2])
				i += 2
				continue
			}
		}

		switch run[i] {
		case 'M', 'T', 'W', 'F', 'S':
			days = append(days, run[i:i+1])
			i++
		default:
			return nil, false
		}
	}
	return days, true
}
