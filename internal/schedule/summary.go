package schedule

import (
	"fmt"
	"strings"
)

// Summary renders s as the plain-text course listing shown to users
func Summary(s *ParsedSchedule) string {
	var b strings.Builder
	if s == nil {
		s = &ParsedSchedule{}
	}

	fmt.Fprintf(&b, "Processed Courses: %d\n", len(s.Courses))
	for _, c := range s.Courses {
		fmt.Fprintf(&b, "\n%s - %s\n", c.Code, c.Name)
		fmt.Fprintf(&b, "Section: %s | Units: %s\n", c.Section, c.Units)
		for _, m := range c.Schedules {
			fmt.Fprintf(&b, "  %s | %s | %s\n", m.Day, m.TimeRange, m.Room)
		}
	}
	return b.String()
}
