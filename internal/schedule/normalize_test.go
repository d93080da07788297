package schedule

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t\r\n ", want: ""},
		{name: "already normal", input: "CS101 A 3.0", want: "CS101 A 3.0"},
		{name: "leading and trailing", input: "  CS101  ", want: "CS101"},
		{name: "mixed runs", input: "CS101\t\tINTRO\r\nTO \n COMPUTING", want: "CS101 INTRO TO COMPUTING"},
		{name: "non-breaking space", input: "ROOM 301", want: "ROOM 301"},
		{name: "full-width letters", input: "ＣＳ１０１", want: "CS101"},
		{name: "ideographic space", input: "ＭＷＦ　７：３０", want: "MWF 7:30"},
		{name: "ligature kept", input: "ﬁnal", want: "ﬁnal"},
		{name: "vulgar fraction kept", input: "½ UNIT", want: "½ UNIT"},
		{name: "accented letters kept", input: "CAFÉ  Ñ", want: "CAFÉ Ñ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"UNITS\nCS101  INTRO\tTO COMPUTING A MWF 7:30-9:00AM ROOM 301 3.0\r\nTOTAL UNITS",
		"¨ diaeresis at start",
		"a b　c",
		"tab\tthen nbsp",
		"ＭＷＦ　７：３０",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
		if strings.ContainsAny(once, "\t\n\r") {
			t.Errorf("Normalize(%q) = %q still contains tab or newline", in, once)
		}
		if strings.Contains(once, "  ") {
			t.Errorf("Normalize(%q) = %q still contains a double space", in, once)
		}
	}
}

func TestJoinPages(t *testing.T) {
	pages := [][]string{
		{"CODE", "UNITS", "CS101 INTRO"},
		{},
		{"TO COMPUTING", "TOTAL UNITS"},
	}

	got := JoinPages(pages)
	want := "CODE UNITS CS101 INTRO\n\nTO COMPUTING TOTAL UNITS"
	if got != want {
		t.Errorf("JoinPages() = %q, want %q", got, want)
	}

	if n := Normalize(got); n != "CODE UNITS CS101 INTRO TO COMPUTING TOTAL UNITS" {
		t.Errorf("Normalize(JoinPages()) = %q", n)
	}

	if JoinPages(nil) != "" {
		t.Error("JoinPages(nil) should be empty")
	}
}
